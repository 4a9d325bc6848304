// internal/services/application/application-store/mongo.go
package applicationstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/The-Young-Programer/Investor-Zteller/internal/common/logger"
	"github.com/The-Young-Programer/Investor-Zteller/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type applicationDocument struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty"`
	FullName             string             `bson:"fullName"`
	Phone                string             `bson:"phone"`
	Email                string             `bson:"email"`
	InvestmentAmount     int64              `bson:"investmentAmount"`
	Duration             int                `bson:"duration"`
	ProjectedReturn      int64              `bson:"projectedReturn"`
	AccountName          string             `bson:"accountName"`
	BankName             string             `bson:"bankName"`
	AccountNumber        string             `bson:"accountNumber"`
	PaymentScreenshotURL string             `bson:"paymentScreenshotURL"`
	TransactionReference string             `bson:"transactionReference"`
	Status               string             `bson:"status"`
	CreatedAt            time.Time          `bson:"createdAt"`
	UpdatedAt            *time.Time         `bson:"updatedAt,omitempty"`
}

type MongoStore struct {
	collection *mongo.Collection
	timeout    time.Duration
	logger     logger.Logger
}

func NewMongoStore(collection *mongo.Collection, timeout time.Duration, log logger.Logger) *MongoStore {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MongoStore{
		collection: collection,
		timeout:    timeout,
		logger:     log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// EnsureIndexes creates the lookup indexes used by the list queries.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	if _, err := s.collection.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) Create(ctx context.Context, app *models.Application) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	doc := toDocument(app)
	doc.ID = primitive.NewObjectID()

	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		s.logger.Error("insert application failed", map[string]interface{}{
			"context": "application.create",
			"error":   err,
		})
		return "", fmt.Errorf("insert application: %w", err)
	}

	app.ID = doc.ID.Hex()
	return app.ID, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*models.Application, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var doc applicationDocument
	if err := s.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("find application: %w", err)
	}

	return fromDocument(&doc), nil
}

func (s *MongoStore) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus, updatedAt time.Time) (*models.Application, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": string(status), "updatedAt": updatedAt.UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc applicationDocument
	if err := s.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("update application status: %w", err)
	}

	return fromDocument(&doc), nil
}

func (s *MongoStore) List(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cur, err := s.collection.Find(ctx, filterQuery(filter), options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find applications: %w", err)
	}
	defer cur.Close(ctx)

	var docs []applicationDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode applications: %w", err)
	}

	apps := make([]models.Application, 0, len(docs))
	for i := range docs {
		apps = append(apps, *fromDocument(&docs[i]))
	}
	return apps, nil
}

func (s *MongoStore) ListByEmail(ctx context.Context, email string) ([]models.StatusSummary, error) {
	apps, err := s.List(ctx, models.ApplicationFilter{Email: email})
	if err != nil {
		return nil, err
	}
	return summarize(apps), nil
}

// filterQuery builds the find filter. Email takes precedence over status.
func filterQuery(filter models.ApplicationFilter) bson.M {
	switch {
	case filter.Email != "":
		return bson.M{"email": filter.Email}
	case filter.Status != "":
		return bson.M{"status": string(filter.Status)}
	default:
		return bson.M{}
	}
}

func summarize(apps []models.Application) []models.StatusSummary {
	out := make([]models.StatusSummary, 0, len(apps))
	for i := range apps {
		out = append(out, apps[i].Summary())
	}
	return out
}

func toDocument(app *models.Application) *applicationDocument {
	doc := &applicationDocument{
		FullName:             app.FullName,
		Phone:                app.Phone,
		Email:                app.Email,
		InvestmentAmount:     app.InvestmentAmount,
		Duration:             app.Duration,
		ProjectedReturn:      app.ProjectedReturn,
		AccountName:          app.AccountName,
		BankName:             app.BankName,
		AccountNumber:        app.AccountNumber,
		PaymentScreenshotURL: app.PaymentScreenshotURL,
		TransactionReference: app.TransactionReference,
		Status:               string(app.Status),
		CreatedAt:            app.CreatedAt.UTC(),
		UpdatedAt:            app.UpdatedAt,
	}
	if id, err := primitive.ObjectIDFromHex(app.ID); err == nil {
		doc.ID = id
	}
	return doc
}

func fromDocument(doc *applicationDocument) *models.Application {
	return &models.Application{
		ID:                   doc.ID.Hex(),
		FullName:             doc.FullName,
		Phone:                doc.Phone,
		Email:                doc.Email,
		InvestmentAmount:     doc.InvestmentAmount,
		Duration:             doc.Duration,
		ProjectedReturn:      doc.ProjectedReturn,
		AccountName:          doc.AccountName,
		BankName:             doc.BankName,
		AccountNumber:        doc.AccountNumber,
		PaymentScreenshotURL: doc.PaymentScreenshotURL,
		TransactionReference: doc.TransactionReference,
		Status:               models.ApplicationStatus(doc.Status),
		CreatedAt:            doc.CreatedAt,
		UpdatedAt:            doc.UpdatedAt,
	}
}
