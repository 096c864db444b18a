package game

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// SessionData 记录退出时已加载的场景（按名称），用于下次启动时恢复
type SessionData struct {
	Enabled  []string `yaml:"enabled"`  // 退出时处于启用状态的场景
	Disabled []string `yaml:"disabled"` // 退出时已加载但禁用的场景
}

// 存储路径常量
const (
	sessionObject   = "session"
	sessionProperty = "scenes"
)

// SessionManager 会话管理器
// 负责已加载场景列表的保存与恢复
type SessionManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	log          *zap.Logger
}

// NewSessionManager 创建会话管理器
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，不持久化）
//   - log: 日志，nil 时不输出
func NewSessionManager(gdataManager *gdata.Manager, log *zap.Logger) *SessionManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionManager{gdataManager: gdataManager, log: log.Named("session")}
}

// Capture 从场景管理器读取当前已加载的场景
func Capture(m *SceneManager) *SessionData {
	data := &SessionData{}
	for _, s := range m.GetEnabledScenes() {
		data.Enabled = append(data.Enabled, s.Name())
	}
	for _, s := range m.GetDisabledScenes() {
		data.Disabled = append(data.Disabled, s.Name())
	}
	return data
}

// Save 保存场景管理器当前的会话
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SessionManager) Save(m *SceneManager) error {
	if sm.gdataManager == nil {
		return nil
	}

	session := Capture(m)
	data, err := yaml.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := sm.gdataManager.SaveObjectProp(sessionObject, sessionProperty, data); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	sm.log.Info("session saved", zap.Strings("enabled", session.Enabled), zap.Strings("disabled", session.Disabled))
	return nil
}

// Load 读取上次保存的会话
//
// 降级模式或没有存档时返回空会话
func (sm *SessionManager) Load() (*SessionData, error) {
	if sm.gdataManager == nil || !sm.gdataManager.ObjectPropExists(sessionObject, sessionProperty) {
		return &SessionData{}, nil
	}

	data, err := sm.gdataManager.LoadObjectProp(sessionObject, sessionProperty)
	if err != nil {
		return &SessionData{}, fmt.Errorf("failed to load session: %w", err)
	}

	var session SessionData
	if err := yaml.Unmarshal(data, &session); err != nil {
		return &SessionData{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Clear 清空已保存的会话，下次启动时不再恢复任何场景
func (sm *SessionManager) Clear() error {
	if sm.gdataManager == nil {
		return nil
	}
	data, err := yaml.Marshal(&SessionData{})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := sm.gdataManager.SaveObjectProp(sessionObject, sessionProperty, data); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Restore 按上次的会话异步加载场景
//
// 目录中已不存在的场景会被跳过并记录警告。返回启动的加载任务。
func (sm *SessionManager) Restore(m *SceneManager) ([]*SceneLoadingTask, error) {
	session, err := sm.Load()
	if err != nil {
		return nil, err
	}

	var tasks []*SceneLoadingTask
	start := func(names []string, enable bool) {
		for _, name := range names {
			index := m.Catalog().IndexOf(name)
			if index < 0 {
				sm.log.Warn("saved scene no longer in catalog", zap.String("name", name))
				continue
			}
			t, err := m.LoadSceneAsync(index, enable)
			if err != nil {
				sm.log.Warn("restore scene", zap.String("name", name), zap.Error(err))
				continue
			}
			tasks = append(tasks, t)
		}
	}
	start(session.Enabled, true)
	start(session.Disabled, false)

	sm.log.Info("session restored", zap.Int("scenes", len(tasks)))
	return tasks, nil
}
