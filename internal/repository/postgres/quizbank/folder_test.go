package quizbank

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"quizbank/internal/domain"
	models "quizbank/internal/domain/models/quizbank"
	quizRepo "quizbank/internal/domain/repositories/quizbank"
	"quizbank/internal/repository/postgres"
)

func stringPtr(s string) *string { return &s }
func boolPtr(b bool) *bool       { return &b }

func newRepoConfig(mock pgxmock.PgxPoolIface) *postgres.RepositoryConfig {
	return &postgres.RepositoryConfig{
		Pool:   mock,
		Tables: postgres.NewTableNames("test_"),
	}
}

type FolderRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    quizRepo.FolderRepository
	context context.Context
	now     time.Time
}

func (suite *FolderRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewFolderRepository(newRepoConfig(mock))
	suite.context = context.Background()
	suite.now = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
}

func (suite *FolderRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestFolderRepoTestSuite(t *testing.T) {
	suite.Run(t, new(FolderRepoTestSuite))
}

func (suite *FolderRepoTestSuite) folderRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "name", "created_at", "is_enabled", "parent_folder_id"})
}

func (suite *FolderRepoTestSuite) TestListAll_OrderedByCreation() {
	rows := suite.folderRows().
		AddRow("A", "Math", suite.now, true, (*string)(nil)).
		AddRow("B", "Algebra", suite.now.Add(time.Minute), false, stringPtr("A"))

	suite.mock.ExpectQuery(`SELECT id, name, created_at, is_enabled, parent_folder_id FROM test_folders ORDER BY created_at ASC`).
		WillReturnRows(rows)

	folders, err := suite.repo.ListAll(suite.context)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), folders, 2)
	assert.Equal(suite.T(), "A", folders[0].ID)
	assert.Nil(suite.T(), folders[0].ParentFolderID)
	assert.Equal(suite.T(), "B", folders[1].ID)
	require.NotNil(suite.T(), folders[1].ParentFolderID)
	assert.Equal(suite.T(), "A", *folders[1].ParentFolderID)
	assert.False(suite.T(), folders[1].IsEnabled)
}

func (suite *FolderRepoTestSuite) TestListAll_EmptyIsNotNil() {
	suite.mock.ExpectQuery(`FROM test_folders`).WillReturnRows(suite.folderRows())

	folders, err := suite.repo.ListAll(suite.context)
	require.NoError(suite.T(), err)
	assert.NotNil(suite.T(), folders)
	assert.Empty(suite.T(), folders)
}

func (suite *FolderRepoTestSuite) TestListAll_QueryError() {
	suite.mock.ExpectQuery(`FROM test_folders`).WillReturnError(errors.New("connection refused"))

	_, err := suite.repo.ListAll(suite.context)
	require.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "list folders")
	assert.Contains(suite.T(), err.Error(), "connection refused")
}

func (suite *FolderRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`FROM test_folders WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := suite.repo.GetByID(suite.context, "missing")
	assert.ErrorIs(suite.T(), err, domain.ErrNotFound)
}

func (suite *FolderRepoTestSuite) TestCreate_ReturnsServerFields() {
	folder := &models.Folder{Name: "Geometry", IsEnabled: true, ParentFolderID: stringPtr("A")}

	suite.mock.ExpectQuery(`INSERT INTO test_folders \(name, is_enabled, parent_folder_id\)`).
		WithArgs("Geometry", true, stringPtr("A")).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow("C", suite.now))

	err := suite.repo.Create(suite.context, folder)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "C", folder.ID)
	assert.Equal(suite.T(), suite.now, folder.CreatedAt)
}

func (suite *FolderRepoTestSuite) TestCreate_MissingParent() {
	folder := &models.Folder{Name: "Orphan", IsEnabled: true, ParentFolderID: stringPtr("gone")}

	suite.mock.ExpectQuery(`INSERT INTO test_folders`).
		WithArgs("Orphan", true, stringPtr("gone")).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err := suite.repo.Create(suite.context, folder)
	assert.ErrorIs(suite.T(), err, domain.ErrNotFound)
	assert.Empty(suite.T(), folder.ID)
}

func (suite *FolderRepoTestSuite) TestUpdate_NameOnly() {
	suite.mock.ExpectExec(`UPDATE test_folders SET name = \$1 WHERE id = \$2`).
		WithArgs("Math", "A").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.Update(suite.context, "A", &models.FolderPatch{Name: stringPtr("Math")})
	assert.NoError(suite.T(), err)
}

func (suite *FolderRepoTestSuite) TestUpdate_BothFields() {
	suite.mock.ExpectExec(`UPDATE test_folders SET name = \$1, is_enabled = \$2 WHERE id = \$3`).
		WithArgs("Math", false, "A").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.Update(suite.context, "A", &models.FolderPatch{Name: stringPtr("Math"), IsEnabled: boolPtr(false)})
	assert.NoError(suite.T(), err)
}

func (suite *FolderRepoTestSuite) TestUpdate_EmptyPatch() {
	err := suite.repo.Update(suite.context, "A", &models.FolderPatch{})
	assert.ErrorIs(suite.T(), err, domain.ErrValidation)
}

func (suite *FolderRepoTestSuite) TestUpdate_NoRows() {
	suite.mock.ExpectExec(`UPDATE test_folders SET is_enabled = \$1 WHERE id = \$2`).
		WithArgs(true, "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.Update(suite.context, "missing", &models.FolderPatch{IsEnabled: boolPtr(true)})
	assert.ErrorIs(suite.T(), err, domain.ErrNotFound)
}

func (suite *FolderRepoTestSuite) TestDelete_Success() {
	suite.mock.ExpectExec(`DELETE FROM test_folders WHERE id = \$1`).
		WithArgs("B").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(suite.T(), suite.repo.Delete(suite.context, "B"))
}

func (suite *FolderRepoTestSuite) TestDelete_StillReferenced() {
	suite.mock.ExpectExec(`DELETE FROM test_folders`).
		WithArgs("A").
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err := suite.repo.Delete(suite.context, "A")
	assert.ErrorIs(suite.T(), err, domain.ErrConflict)
}

func (suite *FolderRepoTestSuite) TestDelete_UsesTransactionFromContext() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`DELETE FROM test_folders`).
		WithArgs("B").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	suite.mock.ExpectCommit()

	txManager := postgres.NewTransactionManager(suite.mock, nil)
	err := txManager.ExecTx(suite.context, func(ctx context.Context) error {
		return suite.repo.Delete(ctx, "B")
	})
	assert.NoError(suite.T(), err)
}

func (suite *FolderRepoTestSuite) TestTransaction_RollsBackOnError() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`DELETE FROM test_folders`).
		WithArgs("B").
		WillReturnError(errors.New("boom"))
	suite.mock.ExpectRollback()

	txManager := postgres.NewTransactionManager(suite.mock, nil)
	err := txManager.ExecTx(suite.context, func(ctx context.Context) error {
		return suite.repo.Delete(ctx, "B")
	})
	assert.Error(suite.T(), err)
}
