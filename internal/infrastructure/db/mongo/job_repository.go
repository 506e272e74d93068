package mongo

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hirelane/jobboard/internal/core/domain"
	"github.com/hirelane/jobboard/internal/core/ports"
)

const jobsCollection = "jobs"

type JobRepository struct {
	col *mongo.Collection
}

func NewJobRepository(db *mongo.Database) *JobRepository {
	return &JobRepository{col: db.Collection(jobsCollection)}
}

type mongoJob struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	EmployerID  string             `bson:"employer_id"`
	Title       string             `bson:"title"`
	Company     string             `bson:"company"`
	Location    string             `bson:"location"`
	Type        string             `bson:"type"`
	Description string             `bson:"description"`
	SalaryMin   int64              `bson:"salary_min,omitempty"`
	SalaryMax   int64              `bson:"salary_max,omitempty"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (m mongoJob) toDomain() *domain.Job {
	return &domain.Job{
		ID:          m.ID.Hex(),
		EmployerID:  m.EmployerID,
		Title:       m.Title,
		Company:     m.Company,
		Location:    m.Location,
		Type:        domain.JobType(m.Type),
		Description: m.Description,
		SalaryMin:   m.SalaryMin,
		SalaryMax:   m.SalaryMax,
		Status:      domain.JobStatus(m.Status),
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

// Create inserts a new job document.
func (r *JobRepository) Create(ctx context.Context, j *domain.Job) (*domain.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoJob{
		EmployerID:  j.EmployerID,
		Title:       j.Title,
		Company:     j.Company,
		Location:    j.Location,
		Type:        string(j.Type),
		Description: j.Description,
		SalaryMin:   j.SalaryMin,
		SalaryMax:   j.SalaryMax,
		Status:      string(j.Status),
		CreatedAt:   j.CreatedAt.UTC(),
		UpdatedAt:   j.UpdatedAt.UTC(),
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

// FindByID retrieves a job by its hex id.
func (r *JobRepository) FindByID(ctx context.Context, id string) (*domain.Job, error) {
	oid, err := objectID(id, domain.ErrJobNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoJob
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&m); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("find job: %w", err)
	}
	return m.toDomain(), nil
}

// List returns the newest jobs matching f. A zero Limit returns every match.
func (r *JobRepository) List(ctx context.Context, f ports.ListJobsFilter) ([]*domain.Job, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := jobFilter(f)
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if f.Limit > 0 {
		opts.SetSkip(pageSkip(f.Page, f.Limit)).SetLimit(int64(f.Limit))
	}

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find jobs: %w", err)
	}
	var docs []mongoJob
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode jobs: %w", err)
	}

	out := make([]*domain.Job, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, total, nil
}

// UpdateStatus sets the status of job id.
func (r *JobRepository) UpdateStatus(ctx context.Context, id string, status domain.JobStatus) error {
	oid, err := objectID(id, domain.ErrJobNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"status": string(status), "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the jobs collection.
func (r *JobRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "employer_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("jobs indexes: %w", err)
	}
	return nil
}

// jobFilter translates f into a Mongo query. Free-text terms are matched
// case-insensitively and quoted so they never act as patterns.
func jobFilter(f ports.ListJobsFilter) bson.M {
	filter := bson.M{}
	if f.EmployerID != "" {
		filter["employer_id"] = f.EmployerID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	if f.Location != "" {
		filter["location"] = containsRegex(f.Location)
	}
	if f.Search != "" {
		re := containsRegex(f.Search)
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"company": re},
			bson.M{"description": re},
		}
	}
	return filter
}

func containsRegex(term string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
}

// pageSkip returns the number of documents before a 1-based page, saturating
// instead of overflowing.
func pageSkip(page, limit int) int64 {
	if page <= 1 || limit <= 0 {
		return 0
	}
	if int64(page-1) > math.MaxInt64/int64(limit) {
		return math.MaxInt64
	}
	return int64(page-1) * int64(limit)
}
