package quizbank

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"quizbank/internal/config"
	"quizbank/internal/domain"
	models "quizbank/internal/domain/models/quizbank"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// A is a root with child B; there are no categories anywhere.
func loadedAB(t *testing.T) (*fakeStore, *folderTreeManager) {
	t.Helper()
	s := newFakeStore()
	s.addFolder("A", "Math", nil)
	s.addFolder("B", "Algebra", ptr("A"))
	m, _ := newTestManager(s)
	require.NoError(t, m.Load(context.Background()))
	s.resetCalls()
	return s, m.(*folderTreeManager)
}

func TestLoad_KeepsCreationOrder(t *testing.T) {
	s := newFakeStore()
	s.addFolder("Z", "Zoology", nil)
	s.addFolder("A", "Art", nil)
	m, _ := newTestManager(s)

	require.NoError(t, m.Load(context.Background()))
	assert.Equal(t, []string{"Z", "A"}, folderIDs(m.Roots()))
}

func TestLoad_FailureKeepsPriorState(t *testing.T) {
	s, m := loadedAB(t)
	s.failOn("folders.ListAll", errors.New("network down"))

	err := m.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrLoad)
	assert.ErrorContains(t, err, "network down")
	assert.Equal(t, []string{"A", "B"}, folderIDs(m.Folders()))
}

func TestDelete_EndToEnd(t *testing.T) {
	s, m := loadedAB(t)
	ctx := context.Background()

	assert.Equal(t, []string{"B"}, folderIDs(m.Children("A")))

	err := m.DeleteFolder(ctx, "A")
	var guard *domain.GuardError
	require.ErrorAs(t, err, &guard)
	assert.Equal(t, domain.GuardChildren, guard.Reason)
	assert.ErrorIs(t, err, domain.ErrGuard)
	assert.Equal(t, "cannot delete folder with subfolders", err.Error())
	assert.Equal(t, 0, s.totalCalls(), "children guard must not touch the store")
	_, stillThere := m.Folder("A")
	assert.True(t, stillThere)

	require.NoError(t, m.DeleteFolder(ctx, "B"))
	assert.Equal(t, []string{"A"}, folderIDs(m.Folders()))
	assert.Equal(t, 1, s.count("categories.CountByFolder"))
	assert.Equal(t, 1, s.count("folders.Delete"))
}

func TestDelete_RefusedWhenFolderHasCategories(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
	}{
		{"enabled category", true},
		{"disabled category", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, m := loadedAB(t)
			s.addCategory("C1", "B", tt.enabled)

			err := m.DeleteFolder(context.Background(), "B")
			var guard *domain.GuardError
			require.ErrorAs(t, err, &guard)
			assert.Equal(t, domain.GuardCategories, guard.Reason)
			assert.Equal(t, 1, guard.Count)
			assert.Equal(t, "cannot delete folder with categories", err.Error())
			assert.Equal(t, 0, s.count("folders.Delete"))
			assert.Len(t, m.Folders(), 2)
		})
	}
}

func TestDelete_CleansDerivedState(t *testing.T) {
	s, m := loadedAB(t)
	ctx := context.Background()

	m.ToggleExpanded("B")
	_, err := m.StartRename("B")
	require.NoError(t, err)
	_, err = m.LoadRoster(ctx, "B")
	require.NoError(t, err)

	require.NoError(t, m.DeleteFolder(ctx, "B"))

	assert.False(t, m.IsExpanded("B"))
	_, editing := m.Editing()
	assert.False(t, editing)
	_, cached := m.Roster(ctx, "B")
	assert.False(t, cached)
	_, inStore := s.storedFolder("B")
	assert.False(t, inStore)
}

func TestDelete_WriteFailureLeavesStateUntouched(t *testing.T) {
	s, m := loadedAB(t)
	m.ToggleExpanded("B")
	s.failOn("folders.Delete", errors.New("permission denied"))

	err := m.DeleteFolder(context.Background(), "B")
	assert.ErrorIs(t, err, domain.ErrWrite)
	assert.Len(t, m.Folders(), 2)
	assert.True(t, m.IsExpanded("B"))
}

func TestDelete_UnknownFolder(t *testing.T) {
	s, m := loadedAB(t)
	err := m.DeleteFolder(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, s.totalCalls())
}

func TestRename(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantName   string
		wantWrites int
	}{
		{"trims surrounding space", "  Math  ", "Math", 1},
		{"empty abandons", "", "Algebra", 0},
		{"whitespace abandons", "   \t ", "Algebra", 0},
		{"plain", "Geometry", "Geometry", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, m := loadedAB(t)
			ctx := context.Background()

			got, err := m.RenameFolder(ctx, "B", tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, got.Name)
			assert.Equal(t, tt.wantWrites, s.count("folders.Update"))

			local, _ := m.Folder("B")
			assert.Equal(t, tt.wantName, local.Name)

			// Round trip: the store agrees with the local view
			require.NoError(t, m.Load(ctx))
			reloaded, _ := m.Folder("B")
			assert.Equal(t, local.Name, reloaded.Name)
		})
	}
}

func TestRename_WriteFailure(t *testing.T) {
	s, m := loadedAB(t)
	s.failOn("folders.Update", errors.New("timeout"))
	_, err := m.StartRename("B")
	require.NoError(t, err)

	_, err = m.RenameFolder(context.Background(), "B", "Calculus")
	assert.ErrorIs(t, err, domain.ErrWrite)

	local, _ := m.Folder("B")
	assert.Equal(t, "Algebra", local.Name)
	_, editing := m.Editing()
	assert.False(t, editing, "edit mode ends when the rename resolves")
}

func TestRename_TooLong(t *testing.T) {
	s, m := loadedAB(t)
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}

	_, err := m.RenameFolder(context.Background(), "B", string(long))
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, s.count("folders.Update"))
}

func TestEditSlot(t *testing.T) {
	s, m := loadedAB(t)
	ctx := context.Background()

	_, err := m.StartRename("missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	state, err := m.StartRename("A")
	require.NoError(t, err)
	assert.Equal(t, models.EditState{FolderID: "A", Draft: "Math"}, state)

	// Only one rename at a time
	_, err = m.StartRename("B")
	require.NoError(t, err)
	current, ok := m.Editing()
	require.True(t, ok)
	assert.Equal(t, "B", current.FolderID)

	_, err = m.UpdateDraft("  Linear Algebra ")
	require.NoError(t, err)

	rows := m.VisibleTree(ctx)
	require.Len(t, rows, 1, "B is hidden while A is collapsed")
	m.ToggleExpanded("A")
	rows = m.VisibleTree(ctx)
	require.Len(t, rows, 2)
	assert.True(t, rows[1].Editing)
	assert.Equal(t, "  Linear Algebra ", rows[1].Draft)

	folder, err := m.CommitRename(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Linear Algebra", folder.Name)
	_, ok = m.Editing()
	assert.False(t, ok)
	assert.Equal(t, 1, s.count("folders.Update"))

	_, err = m.CommitRename(ctx)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = m.UpdateDraft("x")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestEditSlot_Cancel(t *testing.T) {
	s, m := loadedAB(t)
	_, err := m.StartRename("A")
	require.NoError(t, err)
	_, err = m.UpdateDraft("Changed")
	require.NoError(t, err)

	m.CancelRename()

	_, ok := m.Editing()
	assert.False(t, ok)
	local, _ := m.Folder("A")
	assert.Equal(t, "Math", local.Name)
	assert.Equal(t, 0, s.totalCalls())
}

func TestToggleExpanded_DoubleApplicationRestores(t *testing.T) {
	_, m := loadedAB(t)
	m.ToggleExpanded("A")
	before := m.Expanded()

	assert.True(t, m.ToggleExpanded("B"))
	assert.False(t, m.ToggleExpanded("B"))
	assert.Equal(t, before, m.Expanded())

	// Leaves and unknown ids are accepted
	assert.True(t, m.ToggleExpanded("leaf-or-unknown"))
}

func TestCreateFolder_UnderParent(t *testing.T) {
	s, m := loadedAB(t)
	ctx := context.Background()

	created, err := m.CreateFolder(ctx, "  Geometry ", ptr("A"))
	require.NoError(t, err)

	assert.Equal(t, "Geometry", created.Name)
	assert.True(t, created.IsEnabled)
	require.NotNil(t, created.ParentFolderID)
	assert.Equal(t, "A", *created.ParentFolderID)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	local, ok := m.Folder(created.ID)
	require.True(t, ok)
	assert.Equal(t, created, local)
	assert.True(t, m.IsExpanded("A"))

	roster, ok := m.Roster(ctx, created.ID)
	assert.True(t, ok, "new folder gets a roster entry")
	assert.Empty(t, roster)
	assert.Equal(t, []string{"B", created.ID}, folderIDs(m.Children("A")))
	assert.Equal(t, 1, s.count("folders.Create"))
}

func TestCreateFolder_RootDoesNotExpandAnything(t *testing.T) {
	_, m := loadedAB(t)
	created, err := m.CreateFolder(context.Background(), "Science", nil)
	require.NoError(t, err)
	assert.Nil(t, created.ParentFolderID)
	assert.Empty(t, m.Expanded())
	assert.Equal(t, []string{"A", created.ID}, folderIDs(m.Roots()))
}

func TestCreateFolder_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		parent  *string
		wantErr error
	}{
		{"empty name", "", nil, domain.ErrValidation},
		{"whitespace name", "   ", ptr("A"), domain.ErrValidation},
		{"unknown parent", "Physics", ptr("ghost"), domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, m := loadedAB(t)
			_, err := m.CreateFolder(context.Background(), tt.input, tt.parent)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, s.totalCalls())
			assert.Len(t, m.Folders(), 2)
		})
	}
}

func TestCreateFolder_WriteFailure(t *testing.T) {
	s, m := loadedAB(t)
	s.failOn("folders.Create", errors.New("insert rejected"))

	_, err := m.CreateFolder(context.Background(), "Physics", ptr("A"))
	assert.ErrorIs(t, err, domain.ErrWrite)
	assert.Len(t, m.Folders(), 2)
	assert.False(t, m.IsExpanded("A"))
}

func TestCreateFolder_RosterFetchFailureRecordsEmpty(t *testing.T) {
	s, m := loadedAB(t)
	s.failOn("categories.ListEnabledByFolder", errors.New("flaky"))
	ctx := context.Background()

	created, err := m.CreateFolder(ctx, "Physics", nil)
	require.NoError(t, err)

	roster, ok := m.Roster(ctx, created.ID)
	assert.True(t, ok)
	assert.Empty(t, roster)
}

func TestSetFolderEnabled_DoesNotCascade(t *testing.T) {
	s, m := loadedAB(t)
	ctx := context.Background()
	s.addCategory("C1", "B", true)
	s.addQuestion(models.Question{ID: "q1", CategoryID: "C1", Type: models.QuestionText, Question: "?", IsActive: true})
	_, err := m.LoadRoster(ctx, "B")
	require.NoError(t, err)

	updated, err := m.SetFolderEnabled(ctx, "A", false)
	require.NoError(t, err)
	assert.False(t, updated.IsEnabled)

	child, _ := m.Folder("B")
	assert.True(t, child.IsEnabled)
	roster, ok := m.Roster(ctx, "B")
	assert.True(t, ok)
	assert.Len(t, roster, 1)

	toggled, err := m.ToggleFolderEnabled(ctx, "A")
	require.NoError(t, err)
	assert.True(t, toggled.IsEnabled)
	stored, _ := s.storedFolder("A")
	assert.True(t, stored.IsEnabled)
}

func TestSetFolderEnabled_WriteFailure(t *testing.T) {
	s, m := loadedAB(t)
	s.failOn("folders.Update", errors.New("nope"))

	_, err := m.ToggleFolderEnabled(context.Background(), "A")
	assert.ErrorIs(t, err, domain.ErrWrite)
	local, _ := m.Folder("A")
	assert.True(t, local.IsEnabled)
}

// Folder A has one enabled category C1 holding an active q1 and an inactive q2.
func TestLoadRoster_ActiveQuestionsOfEnabledCategories(t *testing.T) {
	s := newFakeStore()
	s.addFolder("A", "History", nil)
	s.addCategory("C1", "A", true)
	s.addCategory("C2", "A", false)
	q1 := models.Question{ID: "q1", CategoryID: "C1", Type: models.QuestionText, Question: "When?", CorrectAnswer: "1066", IsActive: true}
	s.addQuestion(q1)
	s.addQuestion(models.Question{ID: "q2", CategoryID: "C1", Type: models.QuestionText, Question: "Who?", CorrectAnswer: "Harold", IsActive: false})
	s.addQuestion(models.Question{ID: "q3", CategoryID: "C2", Type: models.QuestionText, Question: "Where?", IsActive: true})
	m, _ := newTestManager(s)
	ctx := context.Background()
	require.NoError(t, m.Load(ctx))

	roster, err := m.LoadRoster(ctx, "A")
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, "q1", roster[0].ID)

	rows := m.VisibleTree(ctx)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].RosterLoaded)
	assert.True(t, rows[0].CanExport)
	assert.Equal(t, 1, rows[0].QuestionCount)

	// Second call is served from the cache
	_, err = m.LoadRoster(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 1, s.count("categories.ListEnabledByFolder"))
}

func TestLoadRoster_NoCategoriesSkipsQuestionFetch(t *testing.T) {
	s, m := loadedAB(t)
	roster, err := m.LoadRoster(context.Background(), "A")
	require.NoError(t, err)
	assert.NotNil(t, roster)
	assert.Empty(t, roster)
	assert.Equal(t, 0, s.count("questions.ListActiveByCategories"))

	rows := m.VisibleTree(context.Background())
	assert.False(t, rows[0].CanExport)
}

func TestLoadRoster_FailureStoresNothing(t *testing.T) {
	s, m := loadedAB(t)
	ctx := context.Background()
	s.addCategory("C1", "A", true)
	s.failOn("questions.ListActiveByCategories", errors.New("boom"))

	_, err := m.LoadRoster(ctx, "A")
	assert.ErrorIs(t, err, domain.ErrLoad)
	_, ok := m.Roster(ctx, "A")
	assert.False(t, ok)

	s.failOn("questions.ListActiveByCategories", nil)
	require.NoError(t, m.SaturateRosters(ctx))
	_, ok = m.Roster(ctx, "A")
	assert.True(t, ok, "saturation retries the failed folder")
}

func TestLoadRoster_DoesNotResurrectDeletedFolder(t *testing.T) {
	s, m := loadedAB(t)
	ctx := context.Background()

	// The folder disappears while its categories are being fetched
	s.onCall("categories.ListEnabledByFolder", func() {
		s.removeFolder("B")
		require.NoError(t, m.Load(ctx))
	})

	_, err := m.LoadRoster(ctx, "B")
	require.NoError(t, err)
	_, ok := m.Roster(ctx, "B")
	assert.False(t, ok)
}

func TestLoadRoster_UnknownFolder(t *testing.T) {
	s, m := loadedAB(t)
	_, err := m.LoadRoster(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, s.totalCalls())
}

func TestSaturateRosters_FillsEveryFolder(t *testing.T) {
	s := newFakeStore()
	s.addFolder("root", "Root", nil)
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		s.addFolder(id, id, ptr("root"))
	}
	m, _ := newTestManager(s)
	ctx := context.Background()

	require.NoError(t, m.Refresh(ctx))

	for _, f := range m.Folders() {
		_, ok := m.Roster(ctx, f.ID)
		assert.True(t, ok, "roster for %s", f.ID)
	}
	assert.Equal(t, 7, s.count("categories.ListEnabledByFolder"))

	// Nothing is missing, so a second pass fetches nothing
	require.NoError(t, m.SaturateRosters(ctx))
	assert.Equal(t, 7, s.count("categories.ListEnabledByFolder"))
}

func TestSaturateRosters_JoinsErrors(t *testing.T) {
	s, m := loadedAB(t)
	s.failOn("categories.ListEnabledByFolder", errors.New("down"))

	err := m.SaturateRosters(context.Background())
	assert.ErrorIs(t, err, domain.ErrLoad)
	assert.Equal(t, 2, s.count("categories.ListEnabledByFolder"))
}

func TestInvalidateRoster(t *testing.T) {
	s, m := loadedAB(t)
	ctx := context.Background()
	require.NoError(t, m.SaturateRosters(ctx))

	require.NoError(t, m.InvalidateRoster(ctx, "A"))
	_, ok := m.Roster(ctx, "A")
	assert.False(t, ok)
	_, ok = m.Roster(ctx, "B")
	assert.True(t, ok)

	require.NoError(t, m.InvalidateAllRosters(ctx))
	_, ok = m.Roster(ctx, "B")
	assert.False(t, ok)

	require.NoError(t, m.SaturateRosters(ctx))
	assert.Equal(t, 4, s.count("categories.ListEnabledByFolder"))
}

func TestVisibleTree_OnlyDescendsIntoExpanded(t *testing.T) {
	s := newFakeStore()
	s.addFolder("A", "A", nil)
	s.addFolder("A1", "A1", ptr("A"))
	s.addFolder("A1x", "A1x", ptr("A1"))
	s.addFolder("B", "B", nil)
	m, _ := newTestManager(s)
	ctx := context.Background()
	require.NoError(t, m.Load(ctx))

	rowIDs := func() []string {
		var ids []string
		for _, r := range m.VisibleTree(ctx) {
			ids = append(ids, r.Folder.ID)
		}
		return ids
	}

	assert.Equal(t, []string{"A", "B"}, rowIDs())

	m.ToggleExpanded("A")
	assert.Equal(t, []string{"A", "A1", "B"}, rowIDs())

	m.ToggleExpanded("A1")
	rows := m.VisibleTree(ctx)
	assert.Equal(t, []string{"A", "A1", "A1x", "B"}, rowIDs())
	assert.Equal(t, 2, rows[2].Depth)
	assert.True(t, rows[0].HasChildren)
	assert.False(t, rows[2].HasChildren)

	// Expanded state survives collapsing an ancestor
	m.ToggleExpanded("A")
	assert.Equal(t, []string{"A", "B"}, rowIDs())
	assert.True(t, m.IsExpanded("A1"))
}

func TestForest(t *testing.T) {
	_, m := loadedAB(t)
	forest := m.Forest()
	require.Len(t, forest, 1)
	assert.Equal(t, "A", forest[0].ID)
	require.Len(t, forest[0].Folders, 1)
	assert.Equal(t, "B", forest[0].Folders[0].ID)
}

func TestLoad_PrunesStateOfVanishedFolders(t *testing.T) {
	s, m := loadedAB(t)
	m.ToggleExpanded("B")
	_, err := m.StartRename("B")
	require.NoError(t, err)

	s.removeFolder("B")
	require.NoError(t, m.Load(context.Background()))

	assert.False(t, m.IsExpanded("B"))
	_, editing := m.Editing()
	assert.False(t, editing)
}

func TestVisibleTree_FillsRostersMissedByFailedLoad(t *testing.T) {
	s := newFakeStore()
	s.addFolder("A", "Math", nil)
	s.addCategory("C1", "A", true)
	s.addQuestion(modelsQuestion("q1", "C1"))
	m, _ := newTestManager(s)
	ctx := context.Background()

	s.failOn("categories.ListEnabledByFolder", errors.New("connection reset"))
	assert.ErrorIs(t, m.Refresh(ctx), domain.ErrLoad)
	rows := m.VisibleTree(ctx)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].RosterLoaded, "still failing, so no roster yet")

	s.failOn("categories.ListEnabledByFolder", nil)
	rows = m.VisibleTree(ctx)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].RosterLoaded)
	assert.Equal(t, 1, rows[0].QuestionCount)
	assert.True(t, rows[0].CanExport)

	// Filled entries are not fetched again
	calls := s.count("categories.ListEnabledByFolder")
	m.VisibleTree(ctx)
	assert.Equal(t, calls, s.count("categories.ListEnabledByFolder"))
}

func TestLoadRoster_CancelledCallerDoesNotAbortSharedFetch(t *testing.T) {
	s := newFakeStore()
	s.addFolder("A", "Math", nil)
	s.addCategory("C1", "A", true)
	s.addQuestion(modelsQuestion("q1", "C1"))
	m, _ := newTestManager(s)
	bg := context.Background()
	require.NoError(t, m.Load(bg))

	ctx, cancel := context.WithCancel(bg)
	defer cancel()
	// The caller goes away while the store is still answering
	s.onCall("categories.ListEnabledByFolder", cancel)

	if _, err := m.LoadRoster(ctx, "A"); err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}

	assert.Eventually(t, func() bool {
		roster, ok := m.Roster(bg, "A")
		return ok && len(roster) == 1
	}, time.Second, 5*time.Millisecond)

	roster, err := m.LoadRoster(bg, "A")
	require.NoError(t, err)
	assert.Len(t, roster, 1)
	assert.Equal(t, 1, s.count("categories.ListEnabledByFolder"))
}

func TestRebuildRosters_OverwritesEntries(t *testing.T) {
	s := newFakeStore()
	s.addFolder("A", "Math", nil)
	s.addFolder("B", "Science", nil)
	s.addCategory("C1", "A", true)
	s.addQuestion(modelsQuestion("q1", "C1"))
	m, _ := newTestManager(s)
	ctx := context.Background()
	require.NoError(t, m.Refresh(ctx))

	s.addQuestion(modelsQuestion("q2", "C1"))
	require.NoError(t, m.SaturateRosters(ctx))
	roster, _ := m.Roster(ctx, "A")
	assert.Len(t, roster, 1, "saturation leaves cached entries alone")

	require.NoError(t, m.RebuildRosters(ctx))
	roster, _ = m.Roster(ctx, "A")
	assert.Len(t, roster, 2)
	_, ok := m.Roster(ctx, "B")
	assert.True(t, ok)
}

func TestUpdateFolder(t *testing.T) {
	long := strings.Repeat("x", config.MaxFolderNameLength+1)

	tests := []struct {
		name        string
		newName     *string
		enabled     *bool
		wantErr     error
		wantWrites  int
		wantName    string
		wantEnabled bool
	}{
		{"both fields in one write", ptr(" Geometry "), boolPtr(false), nil, 1, "Geometry", false},
		{"enabled only", nil, boolPtr(false), nil, 1, "Math", false},
		{"blank name keeps enabled change", ptr("   "), boolPtr(false), nil, 1, "Math", false},
		{"blank name alone writes nothing", ptr(""), nil, nil, 0, "Math", true},
		{"invalid name blocks enabled change", ptr(long), boolPtr(false), domain.ErrValidation, 0, "Math", true},
		{"no fields", nil, nil, domain.ErrValidation, 0, "Math", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, m := loadedAB(t)
			ctx := context.Background()
			_, err := m.StartRename("A")
			require.NoError(t, err)

			_, err = m.UpdateFolder(ctx, "A", tt.newName, tt.enabled)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tt.wantWrites, s.count("folders.Update"))
			local, _ := m.Folder("A")
			assert.Equal(t, tt.wantName, local.Name)
			assert.Equal(t, tt.wantEnabled, local.IsEnabled)
			stored, _ := s.storedFolder("A")
			assert.Equal(t, tt.wantName, stored.Name)
			assert.Equal(t, tt.wantEnabled, stored.IsEnabled)

			_, editing := m.Editing()
			assert.Equal(t, tt.newName == nil, editing, "a rename attempt ends the edit")
		})
	}
}

func TestUpdateFolder_WriteFailureChangesNothing(t *testing.T) {
	s, m := loadedAB(t)
	s.failOn("folders.Update", errors.New("rejected"))

	_, err := m.UpdateFolder(context.Background(), "A", ptr("Geometry"), boolPtr(false))
	assert.ErrorIs(t, err, domain.ErrWrite)
	assert.Equal(t, 1, s.count("folders.Update"))

	local, _ := m.Folder("A")
	assert.Equal(t, "Math", local.Name)
	assert.True(t, local.IsEnabled)
}

func TestUpdateFolder_UnknownFolder(t *testing.T) {
	s, m := loadedAB(t)
	_, err := m.UpdateFolder(context.Background(), "ghost", ptr("x"), nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, s.totalCalls())
}
