package firestore

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/errs"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/session"
	"github.com/secmon-lab/analytics-agent/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (r *Firestore) PutSession(ctx context.Context, ssn *session.Session) error {
	if _, err := r.db.Collection(collectionSessions).Doc(ssn.ID.String()).Set(ctx, ssn); err != nil {
		return r.eb.Wrap(err, "failed to put session",
			goerr.TV(errs.SessionIDKey, ssn.ID.String()),
			goerr.T(errs.TagDatabase))
	}
	return nil
}

func (r *Firestore) GetSession(ctx context.Context, id types.SessionID) (*session.Session, error) {
	doc, err := r.db.Collection(collectionSessions).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, r.eb.Wrap(err, "failed to get session",
			goerr.TV(errs.SessionIDKey, id.String()),
			goerr.T(errs.TagDatabase))
	}

	var ssn session.Session
	if err := doc.DataTo(&ssn); err != nil {
		return nil, r.eb.Wrap(err, "failed to convert data to session",
			goerr.TV(errs.SessionIDKey, id.String()),
			goerr.T(errs.TagInternal))
	}
	if ssn.State == nil {
		ssn.State = session.NewState()
	}
	return &ssn, nil
}
