package report

import (
	"os"

	"github.com/clustersim/simga/pkg/common/logger"
	"github.com/clustersim/simga/pkg/simerrors"
	"gopkg.in/mgo.v2"
)

// MongoSink optionally mirrors a run's jobmart rows and the GA
// driver's epoch records into MongoDB, adapted from the teacher's
// pkg/common/mongo.ConnectMongo connection helper into a sink for
// simulation output rather than live training-job telemetry.
type MongoSink struct {
	session *mgo.Session
	db      string
}

// ConnectMongoSink dials MONGODB_SVC_SERVICE_HOST:MONGODB_SVC_SERVICE_PORT,
// the same environment-variable convention the teacher's ConnectMongo
// uses, and returns a sink writing into the named database.
func ConnectMongoSink(db string) (*MongoSink, error) {
	log := logger.GetLogger()

	host := os.Getenv("MONGODB_SVC_SERVICE_HOST")
	port := os.Getenv("MONGODB_SVC_SERVICE_PORT")
	uri := host + ":" + port

	session, err := mgo.Dial(uri)
	if err != nil {
		log.Error(err, "could not connect to mongodb", "uri", uri)
		return nil, err
	}
	return &MongoSink{session: session, db: db}, nil
}

// Close releases the underlying mongo session.
func (m *MongoSink) Close() { m.session.Close() }

// WriteJobmart inserts every jobmart row from one run into the
// sink's "jobmart" collection. A no-op for an empty run.
func (m *MongoSink) WriteJobmart(rows []JobmartRow) error {
	if len(rows) == 0 {
		return nil
	}
	c := m.session.DB(m.db).C("jobmart")
	docs := make([]interface{}, len(rows))
	for i, row := range rows {
		docs[i] = row
	}
	if err := c.Insert(docs...); err != nil {
		return &simerrors.IOError{Path: "mongodb:" + m.db + ".jobmart", Err: err}
	}
	return nil
}

// WriteEpochRecord inserts one GA generation's summary into the
// sink's "records" collection, mirroring AppendEpochRecord's CSV row
// but for a deployment where the GA driver's progress is consumed by
// something other than a local file.
func (m *MongoSink) WriteEpochRecord(rec EpochRecord) error {
	c := m.session.DB(m.db).C("records")
	if err := c.Insert(rec); err != nil {
		return &simerrors.IOError{Path: "mongodb:" + m.db + ".records", Err: err}
	}
	return nil
}
