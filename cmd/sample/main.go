package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"penneo-esign/internal/config"
	"penneo-esign/internal/domain/entity"
	domainrepo "penneo-esign/internal/domain/repository"
	"penneo-esign/internal/infrastructure/connector"
	"penneo-esign/internal/infrastructure/logger"
	"penneo-esign/internal/infrastructure/repository"
)

func main() {
	// Define command line flags
	pdfPath := flag.String("pdf", "document.pdf", "PDF file to send for signing")
	title := flag.String("title", "Demo case file", "Case file title")
	signers := flag.Int("signers", 3, "Number of signers to invite")
	email := flag.String("email", "", "Email address every signing request is sent to")
	callbackURL := flag.String("callback", "http://localhost:8080/callback/signatures/demo", "Base URL signers are redirected to")
	send := flag.Bool("send", true, "Send the case file after it has been built")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "-email is required")
		flag.Usage()
		os.Exit(2)
	}
	if *signers < 1 {
		log.Fatalf("-signers must be at least 1, got %d", *signers)
	}

	// Credentials come from config.yaml or PENNEO_* environment variables
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	content, err := os.ReadFile(*pdfPath)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *pdfPath, err)
	}

	conn, err := connector.New(&cfg.Penneo, zapLogger)
	if err != nil {
		log.Fatalf("Failed to create connector: %v", err)
	}
	repo := repository.NewSigningRepository(conn, zapLogger)

	fmt.Println("Penneo signing sample")
	fmt.Printf("Endpoint: %s\n", cfg.Penneo.Endpoint)
	fmt.Println()

	run := &sample{
		ctx:         context.Background(),
		repo:        repo,
		email:       *email,
		callbackURL: strings.TrimRight(*callbackURL, "/"),
	}
	if err := run.execute(*title, filepath.Base(*pdfPath), content, *signers, *send); err != nil {
		zapLogger.Error("Sample failed", zap.Error(err))
		if body := conn.LastResponseContent(); body != "" {
			fmt.Fprintf(os.Stderr, "Last response (%d): %s\n", conn.LastStatusCode(), body)
		}
		os.Exit(1)
	}

	fmt.Println("Finished")
}

type sample struct {
	ctx         context.Context
	repo        domainrepo.SigningRepository
	email       string
	callbackURL string
}

func (s *sample) persist(e entity.Entity) error {
	ok, err := s.repo.Persist(s.ctx, e)
	if err != nil {
		return err
	}
	if !ok {
		result := s.repo.LatestResult(e)
		if result == nil {
			return fmt.Errorf("persist %s failed", e.Kind())
		}
		return fmt.Errorf("persist %s failed: status=%d %s", e.Kind(), result.StatusCode, result.ErrorMessage)
	}
	return nil
}

func (s *sample) execute(title, documentName string, content []byte, signers int, send bool) error {
	// Create a new case file
	caseFile := entity.NewCaseFile(title)
	if err := s.persist(caseFile); err != nil {
		return err
	}
	fmt.Printf("Case file %d created\n", *caseFile.ID())

	// Create a signable document in the case file
	doc := entity.NewDocument(caseFile, strings.TrimSuffix(documentName, filepath.Ext(documentName)), content)
	s.repo.MakeSignable(doc)
	if err := s.persist(doc); err != nil {
		return err
	}

	for i := 0; i < signers; i++ {
		signer := entity.NewSigner(caseFile, fmt.Sprintf("John Doe %d", i))
		if err := s.persist(signer); err != nil {
			return err
		}

		line := entity.NewSignatureLine(doc, fmt.Sprintf("MySignerRole %d", i))
		if err := s.persist(line); err != nil {
			return err
		}

		ok, err := s.repo.SetSigner(s.ctx, line, signer)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("failed to link signer %d to signature line", i)
		}

		// Point the signing request of the new signer back at the caller
		request, err := s.repo.GetSigningRequest(s.ctx, signer)
		if err != nil {
			return err
		}
		if request == nil {
			return fmt.Errorf("no signing request for signer %d", i)
		}
		request.SuccessURL = s.callbackURL + "/success"
		request.FailURL = s.callbackURL + "/failure"
		request.Email = s.email
		if err := s.persist(request); err != nil {
			return err
		}

		link, err := s.repo.GetSigningLink(s.ctx, request)
		if err != nil {
			return err
		}
		fmt.Printf("<a href=\"%s\">Sign now</a>\n", link)
	}

	if !send {
		return nil
	}

	// Package the case file for sending
	result, err := s.repo.SendCaseFile(s.ctx, caseFile)
	if err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("send failed: status=%d %s", result.StatusCode, result.ErrorMessage)
	}
	fmt.Println("Case file sent")
	return nil
}
