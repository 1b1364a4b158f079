package unitofwork

import (
	"context"
	"errors"

	"study-assistant-be/internal/repository/contract"
	"study-assistant-be/internal/repository/implementation"

	"gorm.io/gorm"
)

var (
	ErrTxActive   = errors.New("transaction already started")
	ErrTxInactive = errors.New("no active transaction")
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

// getDB returns the open transaction if there is one.
func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return ErrTxActive
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return ErrTxInactive
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return ErrTxInactive
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) NotesArchiveRepository() contract.NotesArchiveRepository {
	return implementation.NewNotesArchiveRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ChatTranscriptRepository() contract.ChatTranscriptRepository {
	return implementation.NewChatTranscriptRepository(u.getDB())
}

func (u *UnitOfWorkImpl) QuizResultRepository() contract.QuizResultRepository {
	return implementation.NewQuizResultRepository(u.getDB())
}
