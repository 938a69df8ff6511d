package repository

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hariomtransport/books/ledger"
	"github.com/hariomtransport/books/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCollection stores one record per document keyed by _id. The client
// must be opened with the decimal-aware registry from db/mongo.
type MongoCollection[T any, P entity[T]] struct {
	Coll *mongo.Collection
}

func NewMongoCollection[T any, P entity[T]](db *mongo.Database, name string) *MongoCollection[T, P] {
	return &MongoCollection[T, P]{Coll: db.Collection(name)}
}

func (c *MongoCollection[T, P]) GetAll(ctx context.Context) ([]T, error) {
	return c.find(ctx, bson.M{})
}

func (c *MongoCollection[T, P]) find(ctx context.Context, filter any) ([]T, error) {
	cur, err := c.Coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MongoCollection[T, P]) findOne(ctx context.Context, filter any) (*T, error) {
	var v T
	err := c.Coll.FindOne(ctx, filter).Decode(&v)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (c *MongoCollection[T, P]) Get(ctx context.Context, id string) (*T, error) {
	return c.findOne(ctx, bson.M{"_id": id})
}

func (c *MongoCollection[T, P]) Create(ctx context.Context, item *T) error {
	p := P(item)
	if p.EntityID() == "" {
		p.SetEntityID(uuid.NewString())
	}
	_, err := c.Coll.InsertOne(ctx, item)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (c *MongoCollection[T, P]) Update(ctx context.Context, item *T) error {
	res, err := c.Coll.ReplaceOne(ctx, bson.M{"_id": P(item).EntityID()}, item)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *MongoCollection[T, P]) Delete(ctx context.Context, id string) error {
	res, err := c.Coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// nameFilter matches a name field case-insensitively, ignoring surrounding
// space.
func nameFilter(field, name string) bson.M {
	pattern := `^\s*` + regexp.QuoteMeta(strings.TrimSpace(name)) + `\s*$`
	return bson.M{field: bson.M{"$regex": pattern, "$options": "i"}}
}

// numberFilter matches a bill or memo number the way ledger.NormalizeNo
// compares them: case-insensitively and ignoring whitespace anywhere.
func numberFilter(field, no string) bson.M {
	key := ledger.NormalizeNo(no)
	parts := make([]string, 0, len(key))
	for _, r := range key {
		parts = append(parts, regexp.QuoteMeta(string(r)))
	}
	pattern := `^\s*` + strings.Join(parts, `\s*`) + `\s*$`
	return bson.M{field: bson.M{"$regex": pattern, "$options": "i"}}
}

type MongoBillRepo struct {
	*MongoCollection[models.Bill, *models.Bill]
}

func (r MongoBillRepo) GetByParty(ctx context.Context, party models.Party) ([]models.Bill, error) {
	byName := nameFilter("party_name", party.Name)
	byName["party_id"] = ""
	return r.find(ctx, bson.M{"$or": bson.A{bson.M{"party_id": party.ID}, byName}})
}

func (r MongoBillRepo) GetByNo(ctx context.Context, billNo string) (*models.Bill, error) {
	return r.findOne(ctx, numberFilter("bill_no", billNo))
}

type MongoMemoRepo struct {
	*MongoCollection[models.Memo, *models.Memo]
}

func (r MongoMemoRepo) GetBySupplier(ctx context.Context, supplier models.Supplier) ([]models.Memo, error) {
	byName := nameFilter("supplier_name", supplier.Name)
	byName["supplier_id"] = ""
	return r.find(ctx, bson.M{"$or": bson.A{bson.M{"supplier_id": supplier.ID}, byName}})
}

func (r MongoMemoRepo) GetByNo(ctx context.Context, memoNo string) (*models.Memo, error) {
	return r.findOne(ctx, numberFilter("memo_no", memoNo))
}

type MongoPartyRepo struct {
	*MongoCollection[models.Party, *models.Party]
}

func (r MongoPartyRepo) GetByName(ctx context.Context, name string) (*models.Party, error) {
	return r.findOne(ctx, nameFilter("name", name))
}

type MongoSupplierRepo struct {
	*MongoCollection[models.Supplier, *models.Supplier]
}

func (r MongoSupplierRepo) GetByName(ctx context.Context, name string) (*models.Supplier, error) {
	return r.findOne(ctx, nameFilter("name", name))
}

type MongoInitialRepo struct {
	DB *mongo.Database
}

func NewMongoInitialRepo(db *mongo.Database) *MongoInitialRepo {
	return &MongoInitialRepo{DB: db}
}

func (r *MongoInitialRepo) SaveInitial(ctx context.Context, initial *models.InitialSetup) error {
	if initial.CreatedAt.IsZero() {
		initial.CreatedAt = time.Now().UTC()
	}
	if initial.ID == 0 {
		initial.ID = initial.CreatedAt.UnixNano()
	}
	_, err := r.DB.Collection("initial_setup").ReplaceOne(ctx,
		bson.M{"_id": initial.ID}, initial, options.Replace().SetUpsert(true))
	return err
}

func (r *MongoInitialRepo) GetInitial(ctx context.Context) (*models.InitialSetup, error) {
	var initial models.InitialSetup
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	err := r.DB.Collection("initial_setup").FindOne(ctx, bson.M{}, opts).Decode(&initial)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &initial, nil
}

// NewMongoStore binds every collection to the given database.
func NewMongoStore(db *mongo.Database) *Store {
	return &Store{
		Bills:        MongoBillRepo{NewMongoCollection[models.Bill](db, "bills")},
		Memos:        MongoMemoRepo{NewMongoCollection[models.Memo](db, "memos")},
		BankEntries:  NewMongoCollection[models.BankEntry](db, "bank_entries"),
		Parties:      MongoPartyRepo{NewMongoCollection[models.Party](db, "parties")},
		Suppliers:    MongoSupplierRepo{NewMongoCollection[models.Supplier](db, "suppliers")},
		LoadingSlips: NewMongoCollection[models.LoadingSlip](db, "loading_slips"),
		Ledgers:      NewMongoCollection[models.Ledger](db, "ledgers"),
		Initial:      NewMongoInitialRepo(db),
	}
}
