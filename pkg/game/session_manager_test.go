package game

import (
	"testing"

	"github.com/quasilyte/gdata/v2"
)

// createTestGdataManager opens a gdata manager rooted in a temporary home.
func createTestGdataManager(t *testing.T, appName string) *gdata.Manager {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", home)

	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}
	return manager
}

// TestSessionSaveAndRestore 测试会话保存后在新的场景管理器中恢复
func TestSessionSaveAndRestore(t *testing.T) {
	gm := createTestGdataManager(t, "test_session")
	sessions := NewSessionManager(gm, nil)

	m := NewSceneManager(newTestCatalog(t, newFakeLoader(), 3, 1), nil)
	m.LoadScene(0, true)
	m.LoadScene(2, false)
	m.InstantiateNewLoadedScenes()

	if err := sessions.Save(m); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := sessions.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(loaded.Enabled) != 1 || loaded.Enabled[0] != "scene0" {
		t.Errorf("Enabled = %v, want [scene0]", loaded.Enabled)
	}
	if len(loaded.Disabled) != 1 || loaded.Disabled[0] != "scene2" {
		t.Errorf("Disabled = %v, want [scene2]", loaded.Disabled)
	}

	restored := NewSceneManager(newTestCatalog(t, newFakeLoader(), 3, 1), nil)
	tasks, err := sessions.Restore(restored)
	if err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("Restore() started %d tasks, want 2", len(tasks))
	}
	settle(restored)

	if got := indices(restored.GetEnabledScenes()); !equalInts(got, []int{0}) {
		t.Errorf("restored enabled = %v, want [0]", got)
	}
	if got := indices(restored.GetDisabledScenes()); !equalInts(got, []int{2}) {
		t.Errorf("restored disabled = %v, want [2]", got)
	}
}

// TestSessionRestoreSkipsUnknownScenes 测试目录中已删除的场景被跳过
func TestSessionRestoreSkipsUnknownScenes(t *testing.T) {
	gm := createTestGdataManager(t, "test_session_unknown")
	sessions := NewSessionManager(gm, nil)

	m := NewSceneManager(newTestCatalog(t, newFakeLoader(), 3, 1), nil)
	m.LoadScene(2, true)
	m.InstantiateNewLoadedScenes()
	if err := sessions.Save(m); err != nil {
		t.Fatal(err)
	}

	smaller := NewSceneManager(newTestCatalog(t, newFakeLoader(), 2, 1), nil)
	tasks, err := sessions.Restore(smaller)
	if err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("Restore() started %d tasks, want 0", len(tasks))
	}
}

func TestSessionClear(t *testing.T) {
	gm := createTestGdataManager(t, "test_session_clear")
	sessions := NewSessionManager(gm, nil)

	m := NewSceneManager(newTestCatalog(t, newFakeLoader(), 1, 1), nil)
	m.LoadScene(0, true)
	m.InstantiateNewLoadedScenes()
	sessions.Save(m)

	if err := sessions.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	loaded, err := sessions.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Enabled)+len(loaded.Disabled) != 0 {
		t.Errorf("session not cleared: %+v", loaded)
	}
}

// TestSessionNilGdata 测试 gdataManager 为 nil 时的降级场景
func TestSessionNilGdata(t *testing.T) {
	sessions := NewSessionManager(nil, nil)
	m := NewSceneManager(newTestCatalog(t, newFakeLoader(), 1, 1), nil)
	m.LoadScene(0, true)
	m.InstantiateNewLoadedScenes()

	if err := sessions.Save(m); err != nil {
		t.Errorf("Save() in degraded mode = %v, want nil", err)
	}
	tasks, err := sessions.Restore(m)
	if err != nil || len(tasks) != 0 {
		t.Errorf("Restore() in degraded mode = %d tasks, %v", len(tasks), err)
	}
	if err := sessions.Clear(); err != nil {
		t.Errorf("Clear() in degraded mode = %v", err)
	}
}
