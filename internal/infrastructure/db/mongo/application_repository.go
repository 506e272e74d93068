package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hirelane/jobboard/internal/core/domain"
)

const applicationsCollection = "applications"

type ApplicationRepository struct {
	col *mongo.Collection
}

func NewApplicationRepository(db *mongo.Database) *ApplicationRepository {
	return &ApplicationRepository{col: db.Collection(applicationsCollection)}
}

type mongoApplication struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	JobID       string             `bson:"job_id"`
	JobseekerID string             `bson:"jobseeker_id"`
	CoverLetter string             `bson:"cover_letter,omitempty"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (m mongoApplication) toDomain() *domain.Application {
	return &domain.Application{
		ID:          m.ID.Hex(),
		JobID:       m.JobID,
		JobseekerID: m.JobseekerID,
		CoverLetter: m.CoverLetter,
		Status:      domain.ApplicationStatus(m.Status),
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

// Create inserts an application. The unique (job_id, jobseeker_id) index
// turns a second application into domain.ErrAlreadyApplied.
func (r *ApplicationRepository) Create(ctx context.Context, a *domain.Application) (*domain.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoApplication{
		JobID:       a.JobID,
		JobseekerID: a.JobseekerID,
		CoverLetter: a.CoverLetter,
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt.UTC(),
		UpdatedAt:   a.UpdatedAt.UTC(),
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAlreadyApplied
		}
		return nil, fmt.Errorf("insert application: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id string) (*domain.Application, error) {
	oid, err := objectID(id, domain.ErrApplicationNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoApplication
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&m); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	return m.toDomain(), nil
}

func (r *ApplicationRepository) ListByJobseeker(ctx context.Context, jobseekerID string) ([]*domain.Application, error) {
	return r.find(ctx, bson.M{"jobseeker_id": jobseekerID})
}

func (r *ApplicationRepository) ListByJob(ctx context.Context, jobID string) ([]*domain.Application, error) {
	return r.find(ctx, bson.M{"job_id": jobID})
}

func (r *ApplicationRepository) find(ctx context.Context, filter bson.M) ([]*domain.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find applications: %w", err)
	}
	var docs []mongoApplication
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode applications: %w", err)
	}

	out := make([]*domain.Application, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// CountByJobs groups applications by job_id for the given jobs.
func (r *ApplicationRepository) CountByJobs(ctx context.Context, jobIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(jobIDs))
	if len(jobIDs) == 0 {
		return counts, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"job_id": bson.M{"$in": jobIDs}}}},
		{{Key: "$group", Value: bson.M{"_id": "$job_id", "count": bson.M{"$sum": 1}}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("count applications: %w", err)
	}
	var rows []struct {
		JobID string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode application counts: %w", err)
	}
	for _, row := range rows {
		counts[row.JobID] = row.Count
	}
	return counts, nil
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus) error {
	oid, err := objectID(id, domain.ErrApplicationNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"status": string(status), "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrApplicationNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the applications collection.
func (r *ApplicationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "job_id", Value: 1}, {Key: "jobseeker_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_job_jobseeker"),
		},
		{Keys: bson.D{{Key: "jobseeker_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("applications indexes: %w", err)
	}
	return nil
}
