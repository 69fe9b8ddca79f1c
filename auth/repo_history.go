package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// LoginHistories is the append-only audit log of successful logins
type LoginHistories interface {
	repository.Repository[*LoginHistory]

	Record(ctx context.Context, userID string, at time.Time) error
}

type loginHistories struct {
	repository.Repository[*LoginHistory]
	db *bun.DB
}

var _ LoginHistories = (*loginHistories)(nil)

func NewLoginHistoriesRepository(db *bun.DB) LoginHistories {
	repo := repository.NewRepository[*LoginHistory](db, repository.ModelHandlers[*LoginHistory]{
		NewRecord: func() *LoginHistory { return &LoginHistory{} },
		GetID: func(h *LoginHistory) uuid.UUID {
			if h == nil {
				return uuid.Nil
			}
			return h.ID
		},
		SetID: func(h *LoginHistory, id uuid.UUID) {
			if h != nil {
				h.ID = id
			}
		},
	})

	return &loginHistories{
		Repository: repo,
		db:         db,
	}
}

func (r *loginHistories) Record(ctx context.Context, userID string, at time.Time) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid user reference for login history")
	}

	entry := &LoginHistory{
		ID:             uuid.New(),
		UserID:         uid,
		LoginTimestamp: at,
	}

	if _, err := r.db.NewInsert().Model(entry).Exec(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to insert login history")
	}

	return nil
}
