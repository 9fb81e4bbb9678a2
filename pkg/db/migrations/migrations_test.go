package migrations

import (
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/suite"
)

type MigratorTestSuite struct {
	suite.Suite
	db *sql.DB
}

func TestMigratorSuite(t *testing.T) {
	suite.Run(t, new(MigratorTestSuite))
}

func (s *MigratorTestSuite) SetupTest() {
	db, err := sql.Open("sqlite3", filepath.Join(s.T().TempDir(), "test.db"))
	s.Require().NoError(err)
	s.db = db
}

func (s *MigratorTestSuite) TearDownTest() {
	s.db.Close()
}

func (s *MigratorTestSuite) TestLoadEmbeddedMigrations() {
	migrations, err := NewMigrator(s.db).LoadMigrations()

	s.NoError(err)
	s.Require().Len(migrations, 2)
	s.Equal("001", migrations[0].Version)
	s.Equal("create experiment runs", migrations[0].Description)
	s.Equal("002", migrations[1].Version)
}

func (s *MigratorTestSuite) TestMigrateUpIsIdempotent() {
	migrator := NewMigrator(s.db).Quiet()

	applied, err := migrator.MigrateUp()
	s.NoError(err)
	s.Equal(2, applied)

	applied, err = migrator.MigrateUp()
	s.NoError(err)
	s.Equal(0, applied, "Second run should find nothing to apply")

	_, err = s.db.Exec(`INSERT INTO experiment_runs (id, kind, params, created_at, seed) VALUES ('a', 'fairness', '{}', CURRENT_TIMESTAMP, 7)`)
	s.NoError(err, "Schema should include the seed column")
}

func (s *MigratorTestSuite) TestOrderingAndBadNames() {
	fsys := fstest.MapFS{
		"m/002_second.sql": {Data: []byte("CREATE TABLE b (id INTEGER);")},
		"m/001_first.sql":  {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"m/readme.txt":     {Data: []byte("ignored")},
	}

	migrations, err := NewMigratorFS(s.db, fsys, "m").LoadMigrations()
	s.NoError(err)
	s.Require().Len(migrations, 2)
	s.Equal("first", migrations[0].Description)
	s.Equal("second", migrations[1].Description)

	bad := fstest.MapFS{"m/nounderscore.sql": {Data: []byte("SELECT 1;")}}
	_, err = NewMigratorFS(s.db, bad, "m").LoadMigrations()
	s.Error(err)
}

func (s *MigratorTestSuite) TestFailedMigrationRollsBack() {
	fsys := fstest.MapFS{
		"m/001_broken.sql": {Data: []byte("CREATE TABLE oops (")},
	}

	_, err := NewMigratorFS(s.db, fsys, "m").Quiet().MigrateUp()
	s.Error(err)

	applied, err := NewMigratorFS(s.db, fsys, "m").GetAppliedMigrations()
	s.NoError(err)
	s.Empty(applied)
}
