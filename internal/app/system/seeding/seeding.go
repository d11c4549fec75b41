// Package seeding creates the default site content on first startup.
package seeding

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	contactinfostore "github.com/dalemusser/stratacms/internal/app/store/contactinfo"
	contentstore "github.com/dalemusser/stratacms/internal/app/store/content"
	servicestore "github.com/dalemusser/stratacms/internal/app/store/services"
	"github.com/dalemusser/stratacms/internal/domain/models"
)

// SeedAll seeds default data if not already present. Existing documents are
// never touched, so the seed is safe to run on every startup.
func SeedAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	if err := seedPageContent(ctx, db, logger); err != nil {
		return err
	}
	if err := seedServices(ctx, db, logger); err != nil {
		return err
	}
	return seedContactInfo(ctx, db, logger)
}

// seedPageContent creates default page content for any page key that does
// not have a document yet.
func seedPageContent(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	store := contentstore.New(db)

	defaults := []contentstore.UpsertInput{
		{
			Page:  models.PageHero,
			Title: "Welcome to Leena Group of Companies",
			Content: bson.M{
				"heading":    "Welcome to Leena Group of Companies",
				"subheading": "Your Trusted Partner in Building Materials, Health Tourism & Logistics",
				"cta_label":  "Learn More",
				"cta_url":    "/about",
			},
		},
		{
			Page:  models.PageAbout,
			Title: "About Leena Group of Companies",
			Content: bson.M{
				"intro": "We specialize in providing world-class healthcare services in Turkey, high-quality building materials, and reliable logistics solutions between Liberia and Turkey.",
				"body_html": "<h3>Our Vision</h3>" +
					"<p>To become Liberia's most trusted and innovative leader in building materials, health tourism, and logistics, inspiring progress and delivering sustainable solutions that enrich lives and build a brighter future.</p>" +
					"<h3>Our Mission</h3>" +
					"<p>To become a leader in providing building materials, health tourism services, and logistics solutions in Liberia, setting benchmarks for quality, innovation, and customer satisfaction while driving economic growth and sustainable development.</p>" +
					"<h3>Our Goal</h3>" +
					"<p>To empower Liberia's growth by delivering superior building materials, advancing health tourism experiences, and ensuring seamless logistics solutions, with a dedication to innovation, excellence, and the well-being of our customers and communities.</p>",
			},
		},
		{
			Page:  models.PageContact,
			Title: "Contact Us",
			Content: bson.M{
				"intro":      "Get in touch with us for all your building materials, health tourism, and logistics needs.",
				"form_title": "Send Us a Message",
			},
		},
		{
			Page:  models.PageFooter,
			Title: "Footer",
			Content: bson.M{
				"tagline":   "Building Materials, Health Tourism & Logistics",
				"copyright": "Leena Group of Companies. All rights reserved.",
			},
		},
	}

	for _, in := range defaults {
		exists, err := store.Exists(ctx, in.Page)
		if err != nil {
			logger.Error("failed to check if page content exists",
				zap.String("page", in.Page),
				zap.Error(err))
			return err
		}
		if exists {
			continue
		}
		if _, _, err := store.Upsert(ctx, in); err != nil {
			logger.Error("failed to seed page content",
				zap.String("page", in.Page),
				zap.Error(err))
			return err
		}
		logger.Info("seeded default page content", zap.String("page", in.Page))
	}

	return nil
}

// seedServices creates the three default services when the collection holds
// no services at all. A site with any service, active or not, is left alone.
func seedServices(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	store := servicestore.New(db)

	existing, err := store.ListAll(ctx)
	if err != nil {
		logger.Error("failed to list services for seeding", zap.Error(err))
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	defaults := []servicestore.CreateInput{
		{
			Title:            "Health Tourism",
			ShortDescription: "Access world-class healthcare services in Turkey with our comprehensive health tourism packages.",
			FullDescription:  "<p>At Leena Group of Companies, we specialize in linking patients to world-class healthcare services in Turkey, a global leader in medical excellence. With a network of top hospitals and renowned medical professionals, we ensure that our clients receive the best possible treatments tailored to their needs. From initial consultations to post-treatment care, we manage every aspect of your health journey, providing access to cutting-edge medical procedures, advanced technology, and affordable care.</p>",
			Category:         "health-tourism",
			Features: []string{
				"World-class hospitals with accredited medical centers",
				"Experienced doctors with international experience",
				"Affordable care at competitive prices",
				"Complete care management from consultation to recovery",
			},
			Order: 1,
		},
		{
			Title:            "Building and Construction Materials",
			ShortDescription: "High-quality building materials for residential, commercial, and industrial construction projects.",
			FullDescription:  "<p>We offer a comprehensive range of high-quality building materials to meet the diverse needs of our clients. From durable construction essentials to innovative materials for modern designs, we ensure that every product we provide meets stringent quality standards. Our services are tailored to support construction projects of all sizes, whether for residential, commercial, or industrial purposes.</p>",
			Category:         "building-materials",
			Features: []string{
				"Comprehensive range of construction materials",
				"High-quality standards and certifications",
				"Support for all project sizes",
				"Trusted manufacturer partnerships",
			},
			Order: 2,
		},
		{
			Title:            "Logistics Services",
			ShortDescription: "Reliable import and export logistics services between Liberia and Turkey.",
			FullDescription:  "<p>We provide reliable and efficient logistics services to streamline the movement of goods across borders. Specializing in import and export between Liberia and Turkey, we ensure seamless transportation, timely deliveries, and end-to-end supply chain management. Our experienced team handles every aspect of logistics, including customs clearance, warehousing, and distribution.</p>",
			Category:         "logistics",
			Features: []string{
				"Seamless cross-border transportation",
				"Complete customs clearance services",
				"Warehousing and distribution solutions",
				"End-to-end supply chain management",
			},
			Order: 3,
		},
	}

	for _, in := range defaults {
		svc, err := store.Create(ctx, in)
		if err != nil {
			logger.Error("failed to seed service",
				zap.String("title", in.Title),
				zap.Error(err))
			return err
		}
		logger.Info("seeded default service", zap.String("slug", svc.Slug))
	}

	return nil
}

// seedContactInfo writes the default contact details unless they were
// already set.
func seedContactInfo(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	store := contactinfostore.New(db)

	exists, err := store.Exists(ctx)
	if err != nil {
		logger.Error("failed to check contact info", zap.Error(err))
		return err
	}
	if exists {
		return nil
	}

	_, err = store.Upsert(ctx, contactinfostore.UpsertInput{
		Address:      "Jacob's Town, Japan Freeway, Paynesville, Liberia",
		City:         "Monrovia",
		Country:      "Liberia",
		Phones:       []string{"+231770447334", "+231886510045"},
		Email:        "leenagroupofcompanies@gmail.com",
		WorkingHours: "Monday - Friday: 8:00 AM - 6:00 PM",
		Description:  "Get in touch with us for all your building materials, health tourism, and logistics needs.",
	})
	if err != nil {
		logger.Error("failed to seed contact info", zap.Error(err))
		return err
	}

	logger.Info("seeded default contact info")
	return nil
}
