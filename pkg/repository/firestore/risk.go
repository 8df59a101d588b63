package firestore

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/domain/interfaces"
	"github.com/secmon-lab/qaboard/pkg/domain/model"
	"github.com/secmon-lab/qaboard/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type riskDocument struct {
	ID          string    `firestore:"id"`
	Description string    `firestore:"description"`
	Likelihood  int       `firestore:"likelihood"`
	Impact      int       `firestore:"impact"`
	Seq         int64     `firestore:"seq"`
	CreatedAt   time.Time `firestore:"created_at"`
}

func (d *riskDocument) toModel() *model.Risk {
	return &model.Risk{
		ID:          types.RiskID(d.ID),
		Description: d.Description,
		Likelihood:  types.Likelihood(d.Likelihood),
		Impact:      types.Impact(d.Impact),
		CreatedAt:   d.CreatedAt,
	}
}

type predefinedDocument struct {
	ID          string `firestore:"id"`
	Description string `firestore:"description"`
	Position    int    `firestore:"position"`
}

type riskRepository struct {
	client      *firestore.Client
	collections collections
}

func (r *riskRepository) risksCollection() *firestore.CollectionRef {
	return r.client.Collection(r.collections.name("risks"))
}

func (r *riskRepository) predefinedCollection() *firestore.CollectionRef {
	return r.client.Collection(r.collections.name("predefined_risks"))
}

func (r *riskRepository) counterDoc() *firestore.DocumentRef {
	return r.client.Collection(r.collections.name("counters")).Doc("risk_counter")
}

// docID rejects IDs that Firestore cannot use as a document name
func docID(id types.RiskID) (string, error) {
	if err := id.Validate(); err != nil {
		return "", err
	}
	if strings.Contains(string(id), "/") {
		return "", goerr.New("risk ID must not contain '/'", goerr.V(model.RiskIDKey, id))
	}
	return string(id), nil
}

func (r *riskRepository) List(ctx context.Context) ([]*model.Risk, error) {
	iter := r.risksCollection().OrderBy("seq", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var risks []*model.Risk
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate risks")
		}

		var d riskDocument
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal risk", goerr.V("doc", doc.Ref.ID))
		}
		risks = append(risks, d.toModel())
	}

	return risks, nil
}

func (r *riskRepository) ListPredefined(ctx context.Context) ([]*model.PredefinedRisk, error) {
	iter := r.predefinedCollection().OrderBy("position", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	catalog := []*model.PredefinedRisk{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate predefined risks")
		}

		var d predefinedDocument
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal predefined risk", goerr.V("doc", doc.Ref.ID))
		}
		catalog = append(catalog, &model.PredefinedRisk{
			ID:          types.RiskID(d.ID),
			Description: d.Description,
		})
	}
	return catalog, nil
}

func (r *riskRepository) PutPredefined(ctx context.Context, catalog []*model.PredefinedRisk) error {
	col := r.predefinedCollection()
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(col).GetAll()
		if err != nil {
			return goerr.Wrap(err, "failed to read predefined risks")
		}

		keep := make(map[string]bool, len(catalog))
		for _, p := range catalog {
			keep[string(p.ID)] = true
		}
		for _, doc := range existing {
			if !keep[doc.Ref.ID] {
				if err := tx.Delete(doc.Ref); err != nil {
					return goerr.Wrap(err, "failed to delete predefined risk", goerr.V(model.RiskIDKey, doc.Ref.ID))
				}
			}
		}

		for i, p := range catalog {
			id, err := docID(p.ID)
			if err != nil {
				return err
			}
			d := &predefinedDocument{ID: id, Description: p.Description, Position: i}
			if err := tx.Set(col.Doc(id), d); err != nil {
				return goerr.Wrap(err, "failed to set predefined risk", goerr.V(model.RiskIDKey, p.ID))
			}
		}
		return nil
	})
}

func (r *riskRepository) Promote(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	id, err := docID(risk.ID)
	if err != nil {
		return nil, err
	}

	created := risk.Copy()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	riskRef := r.risksCollection().Doc(id)
	predefinedRef := r.predefinedCollection().Doc(id)
	counterRef := r.counterDoc()

	err = r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// All reads must happen before writes inside a transaction
		if _, err := tx.Get(riskRef); err == nil {
			return goerr.Wrap(interfaces.ErrAlreadyExists, "risk already in matrix", goerr.V(model.RiskIDKey, risk.ID))
		} else if status.Code(err) != codes.NotFound {
			return goerr.Wrap(err, "failed to check risk", goerr.V(model.RiskIDKey, risk.ID))
		}

		var seq int64 = 1
		counter, err := tx.Get(counterRef)
		switch {
		case err == nil:
			v, err := counter.DataAt("value")
			if err != nil {
				return goerr.Wrap(err, "failed to get counter value")
			}
			current, ok := v.(int64)
			if !ok {
				return goerr.New("counter value is not an integer", goerr.V("value", v))
			}
			seq = current + 1
		case status.Code(err) == codes.NotFound:
		default:
			return goerr.Wrap(err, "failed to get counter")
		}

		doc := &riskDocument{
			ID:          id,
			Description: created.Description,
			Likelihood:  int(created.Likelihood),
			Impact:      int(created.Impact),
			Seq:         seq,
			CreatedAt:   created.CreatedAt,
		}
		if err := tx.Create(riskRef, doc); err != nil {
			return goerr.Wrap(err, "failed to create risk", goerr.V(model.RiskIDKey, risk.ID))
		}
		if err := tx.Delete(predefinedRef); err != nil {
			return goerr.Wrap(err, "failed to remove predefined risk", goerr.V(model.RiskIDKey, risk.ID))
		}
		if err := tx.Set(counterRef, map[string]interface{}{"value": seq}); err != nil {
			return goerr.Wrap(err, "failed to update counter")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}
