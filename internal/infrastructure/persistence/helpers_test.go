package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/batchtrack/backend/internal/domain/catalog"
	"github.com/batchtrack/backend/internal/domain/submission"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory sqlite database with the full schema
func setupTestDB(t *testing.T) *Database {
	t.Helper()

	db, err := Open(sqlite.Open(":memory:"), nil)
	require.NoError(t, err)

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.DB.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, db.AutoMigrate())
	return db
}

// newMockDatabase creates a Database backed by sqlmock with the postgres dialect
func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), nil)
	require.NoError(t, err)

	return db, mock, mockDB
}

// fixture builds catalog rows through the repositories
type fixture struct {
	t           *testing.T
	ctx         context.Context
	products    *GormProductRepository
	packages    *GormPackageRepository
	batches     *GormBatchRepository
	submissions *GormSubmissionRepository
	clock       time.Time
}

func newFixture(t *testing.T, db *gorm.DB) *fixture {
	return &fixture{
		t:           t,
		ctx:         context.Background(),
		products:    NewGormProductRepository(db),
		packages:    NewGormPackageRepository(db),
		batches:     NewGormBatchRepository(db),
		submissions: NewGormSubmissionRepository(db),
		clock:       time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) product(name string) *catalog.Product {
	p, err := catalog.NewProduct(name)
	require.NoError(f.t, err)
	require.NoError(f.t, f.products.Create(f.ctx, p))
	return p
}

func (f *fixture) pkg(product *catalog.Product, name string) *catalog.Package {
	p, err := catalog.NewPackage(product.ID, name)
	require.NoError(f.t, err)
	require.NoError(f.t, f.packages.Create(f.ctx, p))
	return p
}

func (f *fixture) batch(product *catalog.Product, pkg *catalog.Package, reportURL *string) *catalog.Batch {
	code, err := catalog.DeriveBatchCode(product.Name, pkg.Name)
	require.NoError(f.t, err)
	b, err := catalog.NewBatch(product, pkg, code, reportURL)
	require.NoError(f.t, err)
	require.NoError(f.t, f.batches.Create(f.ctx, b))
	return b
}

// submit appends a submission one minute after the previous one
func (f *fixture) submit(batch *catalog.Batch, email string) *submission.Submission {
	f.clock = f.clock.Add(time.Minute)
	return f.submitAt(batch, email, f.clock)
}

func (f *fixture) submitAt(batch *catalog.Batch, email string, at time.Time) *submission.Submission {
	s, err := submission.New(email, batch.ID, submission.Metadata{Device: "Desktop"}, at)
	require.NoError(f.t, err)
	require.NoError(f.t, f.submissions.Append(f.ctx, s))
	return s
}

func (f *fixture) count(db *gorm.DB, table string) int64 {
	var n int64
	require.NoError(f.t, db.Table(table).Count(&n).Error)
	return n
}

func strPtr(s string) *string { return &s }
