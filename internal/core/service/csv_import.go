package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/freelanceos/backend/internal/api/metrics"
	"github.com/freelanceos/backend/internal/core/domain"
	"github.com/freelanceos/backend/internal/core/ports"
)

// Header synonyms, compared case-insensitively after trimming.
var csvColumnSynonyms = map[string][]string{
	"name":    {"name", "client name", "client", "full name", "contact", "contact name"},
	"email":   {"email", "e-mail", "email address", "mail", "contact email"},
	"company": {"company", "company name", "organization", "organisation", "business"},
	"notes":   {"notes", "note", "comments", "comment", "description"},
}

// valueValidator checks single values outside request binding.
var valueValidator = validator.New()

// mapCSVHeader returns the column index of every recognised field.
func mapCSVHeader(header []string) map[string]int {
	cols := make(map[string]int)
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for field, synonyms := range csvColumnSynonyms {
			if _, seen := cols[field]; seen {
				continue
			}
			for _, syn := range synonyms {
				if key == syn {
					cols[field] = i
					break
				}
			}
		}
	}
	return cols
}

// ImportCSV creates one client per valid data row. Invalid rows are reported
// as "Row N: ..." where N counts data rows from 1; they do not stop the import.
func (s *ClientService) ImportCSV(ctx context.Context, ownerID string, r io.Reader) (*ports.ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, domain.Invalidf("csv file is empty")
	}
	if err != nil {
		return nil, domain.Invalidf("csv header: %v", err)
	}

	cols := mapCSVHeader(header)
	if _, ok := cols["name"]; !ok {
		return nil, domain.Invalidf("csv must have a name column")
	}
	if _, ok := cols["email"]; !ok {
		return nil, domain.Invalidf("csv must have an email column")
	}

	existing, err := s.repo.List(ctx, ports.ClientFilter{OwnerID: ownerID})
	if err != nil {
		return nil, fmt.Errorf("import clients: %w", err)
	}
	known := make(map[string]struct{}, len(existing))
	for _, c := range existing {
		if c.Email != "" {
			known[c.Email] = struct{}{}
		}
	}

	result := &ports.ImportResult{Imported: []*domain.Client{}, Errors: []string{}}
	row := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", row, err))
			continue
		}
		if isBlankRecord(record) {
			continue
		}

		name := csvField(record, cols, "name")
		email := normalizeEmail(csvField(record, cols, "email"))

		switch {
		case name == "" && email == "":
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: name and email are required", row))
			continue
		case name == "":
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: name is required", row))
			continue
		case email == "":
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: email is required", row))
			continue
		}
		if valueValidator.Var(email, "email") != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: invalid email %q", row, email))
			continue
		}
		if _, dup := known[email]; dup {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: a client with email %s already exists", row, email))
			continue
		}

		c, err := s.Create(ctx, ports.CreateClientInput{
			OwnerID: ownerID,
			Name:    name,
			Email:   email,
			Company: csvField(record, cols, "company"),
			Notes:   csvField(record, cols, "notes"),
		})
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", row, err))
			continue
		}
		known[email] = struct{}{}
		result.Imported = append(result.Imported, c)
	}

	metrics.ClientsImportedTotal.WithLabelValues("imported").Add(float64(len(result.Imported)))
	metrics.ClientsImportedTotal.WithLabelValues("rejected").Add(float64(len(result.Errors)))

	s.logger.Info().
		Str("owner_id", ownerID).
		Int("imported", len(result.Imported)).
		Int("rejected", len(result.Errors)).
		Msg("client csv import finished")

	return result, nil
}

func csvField(record []string, cols map[string]int, field string) string {
	i, ok := cols[field]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func isBlankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
