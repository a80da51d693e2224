package repository

import (
	"context"
	"errors"

	"github.com/persondb/go-services/internal/database"
	"github.com/persondb/go-services/internal/person"
	"github.com/persondb/go-services/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoRepo implements Repository on a MongoDB collection. Ids are ObjectIDs
// generated client-side before insert, the same way the driver would.
type MongoRepo struct {
	col *mongo.Collection
}

// NewMongoRepo wraps col and ensures the lookup indexes exist. An index
// failure is logged and does not prevent the repository from working.
func NewMongoRepo(ctx context.Context, col *mongo.Collection) *MongoRepo {
	if err := database.EnsurePersonIndexes(ctx, col); err != nil {
		logger.Warnf("person indexes on %s: %v", col.Name(), err)
	}
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Insert(ctx context.Context, p *person.Person) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if _, err := m.col.InsertOne(ctx, p); err != nil {
		return person.StoreError("insertOne", "", err)
	}
	return nil
}

func (m *MongoRepo) InsertMany(ctx context.Context, people []*person.Person) error {
	if len(people) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(people))
	for _, p := range people {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		docs = append(docs, p)
	}
	if _, err := m.col.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return person.StoreError("insertMany", "", err)
	}
	return nil
}

func (m *MongoRepo) FindByName(ctx context.Context, name string) ([]*person.Person, error) {
	filter := bson.M{"name": name}
	return m.find(ctx, "find", filter, nil)
}

func (m *MongoRepo) FindOneByFavoriteFood(ctx context.Context, food string) (*person.Person, error) {
	filter := bson.M{"favoriteFoods": food}
	return m.findOne("findOne", m.col.FindOne(ctx, filter), filter)
}

func (m *MongoRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*person.Person, error) {
	filter := bson.M{"_id": id}
	return m.findOne("findById", m.col.FindOne(ctx, filter), filter)
}

func (m *MongoRepo) Save(ctx context.Context, p *person.Person) error {
	filter := bson.M{"_id": p.ID}
	res, err := m.col.ReplaceOne(ctx, filter, p)
	if err != nil {
		return person.StoreError("save", render(filter), err)
	}
	if res.MatchedCount == 0 {
		return person.NotFoundError("save", render(filter))
	}
	return nil
}

func (m *MongoRepo) SetAgeByName(ctx context.Context, name string, age int) (*person.Person, error) {
	filter := bson.M{"name": name}
	update := bson.M{"$set": bson.M{"age": age}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	return m.findOne("findOneAndUpdate", m.col.FindOneAndUpdate(ctx, filter, update, opts), filter)
}

func (m *MongoRepo) DeleteByID(ctx context.Context, id primitive.ObjectID) (*person.Person, error) {
	filter := bson.M{"_id": id}
	return m.findOne("findByIdAndRemove", m.col.FindOneAndDelete(ctx, filter), filter)
}

func (m *MongoRepo) DeleteByName(ctx context.Context, name string) (int64, error) {
	filter := bson.M{"name": name}
	res, err := m.col.DeleteMany(ctx, filter)
	if err != nil {
		return 0, person.StoreError("deleteMany", render(filter), err)
	}
	return res.DeletedCount, nil
}

func (m *MongoRepo) Query(ctx context.Context, q person.Query) ([]*person.Person, error) {
	filter := bson.M{"favoriteFoods": q.FavoriteFood}
	opts := options.Find()
	if q.SortByName {
		opts.SetSort(bson.D{{Key: "name", Value: 1}})
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	if q.ExcludeAge {
		opts.SetProjection(bson.M{"age": 0})
	}
	return m.find(ctx, "query", filter, opts)
}

func (m *MongoRepo) Ping(ctx context.Context) error {
	if err := m.col.Database().Client().Ping(ctx, readpref.Primary()); err != nil {
		return person.StoreError("ping", "", err)
	}
	return nil
}

func (m *MongoRepo) find(ctx context.Context, op string, filter bson.M, opts *options.FindOptions) ([]*person.Person, error) {
	var findOpts []*options.FindOptions
	if opts != nil {
		findOpts = append(findOpts, opts)
	}
	cur, err := m.col.Find(ctx, filter, findOpts...)
	if err != nil {
		return nil, person.StoreError(op, render(filter), err)
	}
	defer cur.Close(ctx)
	out := []*person.Person{}
	for cur.Next(ctx) {
		var p person.Person
		if err := cur.Decode(&p); err != nil {
			return nil, person.StoreError(op, render(filter), err)
		}
		out = append(out, &p)
	}
	if err := cur.Err(); err != nil {
		return nil, person.StoreError(op, render(filter), err)
	}
	return out, nil
}

func (m *MongoRepo) findOne(op string, res *mongo.SingleResult, filter bson.M) (*person.Person, error) {
	var p person.Person
	if err := res.Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, person.StoreError(op, render(filter), err)
	}
	return &p, nil
}

// render formats a filter as relaxed extended JSON for error context.
func render(filter bson.M) string {
	b, err := bson.MarshalExtJSON(filter, false, false)
	if err != nil {
		return "<unprintable>"
	}
	return string(b)
}
