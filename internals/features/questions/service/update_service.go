// file: internals/features/questions/service/update_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"soalklinis_backend/internals/features/questions/dto"
)

var ErrQuestionNotFound = errors.New("question not found")

// ValidationError reports every missing field at once, plus the enum
// violation when correct_answer is present but outside A..E.
type ValidationError struct {
	MissingFields []string
	InvalidAnswer bool
}

func (e *ValidationError) Error() string {
	if len(e.MissingFields) > 0 {
		return fmt.Sprintf("Missing required fields: %s", strings.Join(e.MissingFields, ", "))
	}
	if e.InvalidAnswer {
		return "correct_answer must be one of: A, B, C, D, E"
	}
	return "validation failed"
}

// QuestionStore is the slice of the repository the pipeline needs.
type QuestionStore interface {
	Replace(ctx context.Context, id int64, req dto.ReplaceQuestionRequest) error
	SetAccepted(ctx context.Context, id int64, accepted bool) error
}

// UpdateService validates a replacement payload and performs the atomic
// replace-and-mark-updated. Validation runs entirely before any write.
type UpdateService struct {
	Store    QuestionStore
	validate *validator.Validate
}

func NewUpdateService(store QuestionStore) *UpdateService {
	v := validator.New()
	// report violations under the wire field name, not the Go field name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &UpdateService{Store: store, validate: v}
}

// CommitReplacement is idempotent in effect for identical payloads: the
// second commit rewrites the same values and already_updated stays true.
func (s *UpdateService) CommitReplacement(ctx context.Context, id int64, req dto.ReplaceQuestionRequest) error {
	if verr := s.validateReplacement(req); verr != nil {
		return verr
	}

	if err := s.Store.Replace(ctx, id, req); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}
		return err
	}
	return nil
}

// SetAcceptance toggles is_accepted independently of the replace path.
func (s *UpdateService) SetAcceptance(ctx context.Context, id int64, accepted bool) error {
	if err := s.Store.SetAccepted(ctx, id, accepted); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}
		return err
	}
	return nil
}

func (s *UpdateService) validateReplacement(req dto.ReplaceQuestionRequest) *ValidationError {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{}
	}

	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			verr.MissingFields = append(verr.MissingFields, fe.Field())
		case "oneof":
			verr.InvalidAnswer = true
		}
	}
	return verr
}
