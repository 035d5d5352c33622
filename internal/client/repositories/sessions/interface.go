// Package sessions persists the single session record in the local sqlite
// database. It implements session.Repository.
package sessions

import (
	"context"

	"github.com/phototrail/cli/internal/client/session"
)

type Repository interface {
	Load(ctx context.Context) (session.Session, error)
	Save(ctx context.Context, s session.Session) error
	Clear(ctx context.Context) error
}
