// file: internals/features/questions/repository/question_repository.go
package repository

import (
	"context"

	"gorm.io/gorm"

	"soalklinis_backend/internals/features/questions/dto"
	"soalklinis_backend/internals/features/questions/model"
)

// QuestionRepository is the typed store adapter over the question tables.
// Not-found surfaces as gorm.ErrRecordNotFound; the service layer maps it.
type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// ListBySystem returns {id, already_updated} rows for one system,
// id ascending, offset-paginated.
func (r *QuestionRepository) ListBySystem(ctx context.Context, systemID int64, limit, offset int) ([]dto.QuestionListItem, error) {
	var items []dto.QuestionListItem
	err := r.DB.WithContext(ctx).
		Table("questions_duplicated AS q").
		Select("q.id, q.already_updated").
		Joins("JOIN subtopic_lists s ON q.subtopic_list_id = s.id").
		Joins("JOIN topic_lists t ON s.topic_id = t.id").
		Where("t.system_id = ?", systemID).
		Order("q.id ASC").
		Limit(limit).
		Offset(offset).
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []dto.QuestionListItem{}
	}
	return items, nil
}

func (r *QuestionRepository) FindByID(ctx context.Context, id int64) (*model.QuestionModel, error) {
	var q model.QuestionModel
	if err := r.DB.WithContext(ctx).First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

// FindBefore reads the pre-duplication snapshot from the source table.
func (r *QuestionRepository) FindBefore(ctx context.Context, id int64) (*model.QuestionBeforeModel, error) {
	var q model.QuestionBeforeModel
	if err := r.DB.WithContext(ctx).First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepository) CountByStatus(ctx context.Context) (updated, total int64, err error) {
	db := r.DB.WithContext(ctx)
	if err = db.Model(&model.QuestionModel{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err = db.Model(&model.QuestionModel{}).Where("already_updated = ?", true).Count(&updated).Error; err != nil {
		return 0, 0, err
	}
	return updated, total, nil
}

// Replace performs the atomic read-then-write: the row is loaded and
// overwritten inside one transaction so two replaces of the same id
// serialize on the store. already_updated flips to true and stays true.
func (r *QuestionRepository) Replace(ctx context.Context, id int64, req dto.ReplaceQuestionRequest) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var q model.QuestionModel
		if err := tx.First(&q, id).Error; err != nil {
			return err
		}

		req.ApplyTo(&q)
		q.AlreadyUpdated = true

		return tx.Model(&model.QuestionModel{}).
			Where("id = ?", id).
			Select("scenario", "question",
				"option_a", "option_b", "option_c", "option_d", "option_e",
				"correct_answer", "discussion", "learning_objective",
				"already_updated").
			Updates(&q).Error
	})
}

// SetAccepted is a single-field toggle, deliberately outside the replace
// transaction path.
func (r *QuestionRepository) SetAccepted(ctx context.Context, id int64, accepted bool) error {
	res := r.DB.WithContext(ctx).
		Model(&model.QuestionModel{}).
		Where("id = ?", id).
		Update("is_accepted", accepted)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
