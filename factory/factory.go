// Package factory provides the generic create/read/update/delete handlers
// every resource composes. Per-resource behavior (deriving slugs, scoping
// out secret tours, recomputing aggregates) is passed in as named pipeline
// stages so the control flow stays visible at the call site.
package factory

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"roamly/apperror"
	"roamly/models"
	"roamly/query"
	"roamly/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const opTimeout = 5 * time.Second

// Populate describes an eager-load of a reference field on single reads.
type Populate struct {
	From         string
	LocalField   string
	ForeignField string
	As           string
	Project      bson.M
	Single       bool
}

// Resource parameterizes the generic handlers over an entity type.
type Resource[T any] struct {
	Name    string
	Coll    func() *mongo.Collection
	IDField string
	// IDParam is the route parameter holding the identifier; defaults to "id".
	IDParam  string
	Populate []Populate

	// BaseFilter scopes list reads: parent filters for nested routes and
	// default exclusions. Client query constraints cannot override it.
	BaseFilter func(r *http.Request, ps httprouter.Params) bson.M

	// PrepareCreate / PrepareUpdate are the explicit write-side stages
	// (assign ids, derive slug, apply defaults, pin derived fields).
	// Errors abort the write. PrepareUpdate sees the pre-merge document
	// so it can restore fields clients may not set.
	PrepareCreate func(r *http.Request, ps httprouter.Params, doc *T) error
	PrepareUpdate func(r *http.Request, ps httprouter.Params, before, doc *T) error

	// After hooks run once the write succeeded. Updates and deletes pass
	// the document as it stood BEFORE the mutation: aggregate recomputes
	// must target the parent the document was attached to, and for deletes
	// the references are not retrievable afterwards.
	AfterCreate func(ctx context.Context, doc *T)
	AfterUpdate func(ctx context.Context, before, after *T)
	AfterDelete func(ctx context.Context, before *T)
}

func (res *Resource[T]) idParam() string {
	if res.IDParam != "" {
		return res.IDParam
	}
	return "id"
}

func (res *Resource[T]) baseFilter(r *http.Request, ps httprouter.Params) bson.M {
	if res.BaseFilter == nil {
		return bson.M{}
	}
	return res.BaseFilter(r, ps)
}

// GetAll lists matching documents through the query feature builder and
// reports the result count alongside them.
func (res *Resource[T]) GetAll() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
		defer cancel()

		features := query.New(r.URL.Query(), res.baseFilter(r, ps)).
			Filter().
			Sort().
			LimitFields().
			Paginate()

		docs, err := utils.FindAndDecode[T](ctx, res.Coll(), features.FindFilter(), features.FindOptions())
		if err != nil {
			apperror.WriteAPI(w, r, apperror.Internal(err))
			return
		}

		utils.SendList(w, http.StatusOK, len(docs), map[string]any{res.Name + "s": docs})
	}
}

// GetOne reads a single document, eager-loading any configured reference
// fields in one aggregation.
func (res *Resource[T]) GetOne() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
		defer cancel()

		id := ps.ByName(res.idParam())
		doc, err := res.fetchOne(ctx, id)
		if err != nil {
			apperror.WriteAPI(w, r, err)
			return
		}

		utils.SendData(w, http.StatusOK, map[string]any{res.Name: doc})
	}
}

func (res *Resource[T]) fetchOne(ctx context.Context, id string) (*T, error) {
	match := bson.M{res.IDField: id}

	if len(res.Populate) == 0 {
		var doc T
		err := res.Coll().FindOne(ctx, match).Decode(&doc)
		if err != nil {
			return nil, apperror.FromStore(err, res.Name)
		}
		return &doc, nil
	}

	pipeline := mongo.Pipeline{bson.D{{Key: "$match", Value: match}}}
	for _, pop := range res.Populate {
		lookup := bson.M{
			"from":         pop.From,
			"localField":   pop.LocalField,
			"foreignField": pop.ForeignField,
			"as":           pop.As,
		}
		if len(pop.Project) > 0 {
			lookup["pipeline"] = []bson.M{{"$project": pop.Project}}
		}
		pipeline = append(pipeline, bson.D{{Key: "$lookup", Value: lookup}})
		if pop.Single {
			pipeline = append(pipeline, bson.D{{Key: "$unwind", Value: bson.M{
				"path":                       "$" + pop.As,
				"preserveNullAndEmptyArrays": true,
			}}})
		}
	}

	docs, err := utils.AggregateAndDecode[T](ctx, res.Coll(), pipeline)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if len(docs) == 0 {
		return nil, apperror.NotFound("No " + res.Name + " found with that ID")
	}
	return &docs[0], nil
}

// CreateOne inserts a document from the validated request body.
func (res *Resource[T]) CreateOne() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
		defer cancel()

		var doc T
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			apperror.WriteAPI(w, r, apperror.Validation("Invalid input data"))
			return
		}

		if res.PrepareCreate != nil {
			if err := res.PrepareCreate(r, ps, &doc); err != nil {
				apperror.WriteAPI(w, r, err)
				return
			}
		}

		if err := models.Validate(&doc); err != nil {
			apperror.WriteAPI(w, r, apperror.FromValidator(err))
			return
		}

		if _, err := res.Coll().InsertOne(ctx, doc); err != nil {
			apperror.WriteAPI(w, r, apperror.FromStore(err, res.Name))
			return
		}

		if res.AfterCreate != nil {
			res.AfterCreate(ctx, &doc)
		}

		utils.SendData(w, http.StatusCreated, map[string]any{res.Name: doc})
	}
}

// UpdateOne merges the patch over the stored document and re-runs full
// validation, so partial updates cannot sidestep invariants.
func (res *Resource[T]) UpdateOne() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
		defer cancel()

		id := ps.ByName(res.idParam())
		match := bson.M{res.IDField: id}

		var doc T
		if err := res.Coll().FindOne(ctx, match).Decode(&doc); err != nil {
			apperror.WriteAPI(w, r, apperror.FromStore(err, res.Name))
			return
		}
		before := doc

		// Decoding onto the loaded struct merges patch fields over the
		// stored state.
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			apperror.WriteAPI(w, r, apperror.Validation("Invalid input data"))
			return
		}

		if res.PrepareUpdate != nil {
			if err := res.PrepareUpdate(r, ps, &before, &doc); err != nil {
				apperror.WriteAPI(w, r, err)
				return
			}
		}

		if err := models.Validate(&doc); err != nil {
			apperror.WriteAPI(w, r, apperror.FromValidator(err))
			return
		}

		if _, err := res.Coll().ReplaceOne(ctx, match, doc); err != nil {
			apperror.WriteAPI(w, r, apperror.FromStore(err, res.Name))
			return
		}

		if res.AfterUpdate != nil {
			res.AfterUpdate(ctx, &before, &doc)
		}

		utils.SendData(w, http.StatusOK, map[string]any{res.Name: doc})
	}
}

// DeleteOne removes a document. The document is read first, both for the
// NotFound check and so After hooks still see its reference fields.
func (res *Resource[T]) DeleteOne() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
		defer cancel()

		id := ps.ByName(res.idParam())
		match := bson.M{res.IDField: id}

		var doc T
		if err := res.Coll().FindOne(ctx, match).Decode(&doc); err != nil {
			apperror.WriteAPI(w, r, apperror.FromStore(err, res.Name))
			return
		}

		if _, err := res.Coll().DeleteOne(ctx, match); err != nil {
			apperror.WriteAPI(w, r, apperror.Internal(err))
			return
		}

		if res.AfterDelete != nil {
			res.AfterDelete(ctx, &doc)
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
