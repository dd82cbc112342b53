package service

import (
	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/model"
)

// GeneratorService handles stateless password generation.
type GeneratorService struct {
	gen *crypto.Generator
}

// NewGeneratorService creates a new GeneratorService. A nil gen uses crypto/rand.
func NewGeneratorService(gen *crypto.Generator) *GeneratorService {
	if gen == nil {
		gen = crypto.NewGenerator(nil)
	}
	return &GeneratorService{gen: gen}
}

// Generate produces a password for the request, filling omitted fields from the defaults.
func (s *GeneratorService) Generate(req model.GenerateRequest) (model.GenerateResponse, error) {
	change, err := parseChange(req.Length, req.Classes)
	if err != nil {
		return model.GenerateResponse{}, err
	}
	cfg := crypto.DefaultConfig()
	change(&cfg)
	if err := ValidateConfig(cfg); err != nil {
		return model.GenerateResponse{}, err
	}

	password := s.gen.GenerateConfig(cfg)

	return model.GenerateResponse{
		Password: password,
		Length:   len(password),
		Classes:  cfg.Classes.Names(),
	}, nil
}
