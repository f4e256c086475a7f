package main

import (
	"fmt"
	"log"

	"heliosign/internal/config"
	"heliosign/internal/email/noop"
	"heliosign/internal/email/ses"
	"heliosign/internal/esign"
	"heliosign/internal/handler"
	"heliosign/internal/port"
	"heliosign/internal/repository/postgres"
	"heliosign/internal/router"
	"heliosign/internal/service"
	s3storage "heliosign/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	contactRepo := postgres.NewContactRepo(db)
	docRepo := postgres.NewDocumentRepo(db)
	fieldRepo := postgres.NewFieldRepo(db)
	signerRepo := postgres.NewSignerRepo(db)
	sigRepo := postgres.NewSignatureRepo(db)
	auditRepo := postgres.NewAuditLogRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize email provider
	var emailSender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		emailSender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		emailSender = noop.NewNoopSender()
	}

	// Initialize signature renderer
	renderer, err := esign.NewRenderer(esign.DefaultFontCatalog())
	if err != nil {
		return fmt.Errorf("failed to initialize signature renderer: %w", err)
	}

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	contactSvc := service.NewContactService(contactRepo)
	docSvc := service.NewDocumentService(docRepo, fieldRepo, signerRepo, auditRepo, contactRepo, s3Client, emailSender, cfg.S3, cfg.Email, cfg.Signing)
	signSvc := service.NewSigningService(docRepo, fieldRepo, signerRepo, sigRepo, auditRepo, userRepo, s3Client, emailSender, renderer, cfg.S3, cfg.Email)
	reportSvc := service.NewReportService(auditRepo, docRepo, signerRepo)

	// Initialize handlers
	handlers := router.Handlers{
		Auth:     handler.NewAuthHandler(authSvc),
		Document: handler.NewDocumentHandler(docSvc),
		Signing:  handler.NewSigningHandler(signSvc),
		Contact:  handler.NewContactHandler(contactSvc),
		Report:   handler.NewReportHandler(reportSvc),
		Health:   handler.NewHealthHandler(db),
	}

	// Setup router
	r := router.Setup(cfg, authSvc, handlers)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
