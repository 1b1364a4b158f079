package implementation

import (
	"context"
	"errors"

	"study-assistant-be/internal/entity"
	"study-assistant-be/internal/mapper"
	"study-assistant-be/internal/model"
	"study-assistant-be/internal/repository/contract"
	"study-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotesArchiveRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NotesArchiveMapper
}

func NewNotesArchiveRepository(db *gorm.DB) contract.NotesArchiveRepository {
	return &NotesArchiveRepositoryImpl{
		db:     db,
		mapper: mapper.NewNotesArchiveMapper(),
	}
}

func (r *NotesArchiveRepositoryImpl) Create(ctx context.Context, archive *entity.NotesArchive) error {
	if archive.Id == uuid.Nil {
		archive.Id = uuid.New()
	}
	m := r.mapper.ToModel(archive)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*archive = *r.mapper.ToEntity(m)
	return nil
}

func (r *NotesArchiveRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.NotesArchive, error) {
	var m model.NotesArchive
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *NotesArchiveRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NotesArchive, error) {
	var models []*model.NotesArchive
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *NotesArchiveRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.NotesArchive{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
