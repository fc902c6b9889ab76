package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"sitebuilder/internal/domains"
	"sitebuilder/internal/storage"

	"github.com/go-playground/validator/v10"
)

var (
	// Whitespace here is the Unicode set: ASCII \s, the Z categories and BOM.
	emailPattern = regexp.MustCompile(`^[^\s\p{Z}\x{FEFF}@]+@[^\s\p{Z}\x{FEFF}@]+\.[^\s\p{Z}\x{FEFF}@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)

	formValidate = newFormValidator()

	formReasons = map[string]string{
		"required":      "is required",
		"contact_email": "is not a valid address",
		"contact_phone": "is not a valid international number",
	}
)

func newFormValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	must(v.RegisterValidation("contact_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("contact_phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	}))
	return v
}

type FormService struct {
	websites    WebsiteProvider
	submissions SubmissionProvider
}

func NewFormService(websites WebsiteProvider, submissions SubmissionProvider) *FormService {
	return &FormService{
		websites:    websites,
		submissions: submissions,
	}
}

// Submit validates a contact form and stores it as a lead of a published
// website. Nothing is written when validation fails.
func (s *FormService) Submit(ctx context.Context, websiteID string, form domains.FormData) (domains.FormSubmission, error) {
	form, err := validateForm(form)
	if err != nil {
		return domains.FormSubmission{}, err
	}

	website, err := s.websites.GetWebsiteByID(ctx, websiteID)
	if err != nil {
		return domains.FormSubmission{}, err
	}
	if !website.IsPublished {
		return domains.FormSubmission{}, fmt.Errorf("website %s is a draft: %w", websiteID, storage.ErrNotFound)
	}

	saved, err := s.submissions.SaveFormSubmission(ctx, websiteID, form)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Error("save form submission failed", "err", err, "website_id", websiteID)
		}
		return domains.FormSubmission{}, err
	}
	slog.Info("form submission saved", "website_id", websiteID, "submission_id", saved.ID)
	return saved, nil
}

func validateForm(form domains.FormData) (domains.FormData, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.Message = strings.TrimSpace(form.Message)
	form.Phone = stripSpaces(form.Phone)

	err := formValidate.Struct(form)
	if err == nil {
		return form, nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return form, err
	}
	first := fieldErrs[0]
	reason := formReasons[first.Tag()]
	if first.Field() == "email" && first.Tag() == "required" {
		reason = formReasons["contact_email"]
	}
	return form, invalid(first.Field(), reason)
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
