package memory

import (
	"strings"
	"sync"
	"time"

	"chat-app/internal/model"

	"gorm.io/gorm"
)

// 内存版仓储实现，供测试与本地工具使用
// 错误语义与gorm实现对齐：缺失返回 gorm.ErrRecordNotFound，
// 唯一约束冲突返回 gorm.ErrDuplicatedKey

// UserStore 内存用户仓储
type UserStore struct {
	mu     sync.RWMutex
	users  map[uint]*model.User
	nextID uint
}

// NewUserStore 创建内存用户仓储
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[uint]*model.User), nextID: 1}
}

// Create 创建用户，用户名/邮箱重复时返回 gorm.ErrDuplicatedKey
func (s *UserStore) Create(user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username || strings.EqualFold(u.Email, user.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = s.nextID
	s.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

// Save 保存用户
func (s *UserStore) Save(user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	user.UpdatedAt = time.Now()
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

// GetByID 按ID获取用户
func (s *UserStore) GetByID(id uint) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *u
	return &clone, nil
}

// GetByUsername 按用户名获取用户
func (s *UserStore) GetByUsername(username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// GetByEmail 按邮箱获取用户（不区分大小写）
func (s *UserStore) GetByEmail(email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// GetByUsernameOrEmail 按用户名或邮箱获取用户
func (s *UserStore) GetByUsernameOrEmail(identifier string) (*model.User, error) {
	if u, err := s.GetByUsername(identifier); err == nil {
		return u, nil
	}
	return s.GetByEmail(identifier)
}

// ExistsByEmail 邮箱是否已注册
func (s *UserStore) ExistsByEmail(email string) (bool, error) {
	_, err := s.GetByEmail(email)
	if err == nil {
		return true, nil
	}
	return false, nil
}

// UpdateLoginState 更新登录安全状态
func (s *UserStore) UpdateLoginState(id uint, attempts int, lockUntil *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.LoginAttempts = attempts
	u.LockUntil = lockUntil
	return nil
}

// UpdateLastLogin 更新最近登录时间
func (s *UserStore) UpdateLastLogin(id uint, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.LastLogin = &at
	return nil
}

// FriendshipStore 内存好友关系仓储
type FriendshipStore struct {
	mu     sync.RWMutex
	edges  map[uint]*model.Friendship
	nextID uint
}

// NewFriendshipStore 创建内存好友关系仓储
func NewFriendshipStore() *FriendshipStore {
	return &FriendshipStore{edges: make(map[uint]*model.Friendship), nextID: 1}
}

// Create 创建边，有序对重复时返回 gorm.ErrDuplicatedKey
func (s *FriendshipStore) Create(f *model.Friendship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.edges {
		if e.RequesterID == f.RequesterID && e.RecipientID == f.RecipientID {
			return gorm.ErrDuplicatedKey
		}
	}
	f.ID = s.nextID
	s.nextID++
	f.CreatedAt = time.Now()
	f.UpdatedAt = f.CreatedAt
	clone := *f
	s.edges[f.ID] = &clone
	return nil
}

// Save 保存边
func (s *FriendshipStore) Save(f *model.Friendship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.edges[f.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.UpdatedAt = time.Now()
	clone := *f
	s.edges[f.ID] = &clone
	return nil
}

// GetByID 按ID获取边
func (s *FriendshipStore) GetByID(id uint) (*model.Friendship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.edges[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *f
	return &clone, nil
}

// FindBetween 查找两用户间的边（双向），不存在时返回 (nil, nil)
func (s *FriendshipStore) FindBetween(userID1, userID2 uint) (*model.Friendship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.edges {
		if (f.RequesterID == userID1 && f.RecipientID == userID2) ||
			(f.RequesterID == userID2 && f.RecipientID == userID1) {
			clone := *f
			return &clone, nil
		}
	}
	return nil, nil
}

// ListPendingReceived 用户收到的待处理请求
func (s *FriendshipStore) ListPendingReceived(userID uint) ([]*model.Friendship, error) {
	return s.filter(func(f *model.Friendship) bool {
		return f.RecipientID == userID && f.Status == model.FriendshipStatusPending
	}), nil
}

// ListPendingSent 用户发出的待处理请求
func (s *FriendshipStore) ListPendingSent(userID uint) ([]*model.Friendship, error) {
	return s.filter(func(f *model.Friendship) bool {
		return f.RequesterID == userID && f.Status == model.FriendshipStatusPending
	}), nil
}

// ListAccepted 用户参与的已接受边
func (s *FriendshipStore) ListAccepted(userID uint) ([]*model.Friendship, error) {
	return s.filter(func(f *model.Friendship) bool {
		return f.Involves(userID) && f.Status == model.FriendshipStatusAccepted
	}), nil
}

// CountAccepted 统计已接受边数量
func (s *FriendshipStore) CountAccepted(userID uint) (int64, error) {
	edges, _ := s.ListAccepted(userID)
	return int64(len(edges)), nil
}

func (s *FriendshipStore) filter(keep func(*model.Friendship) bool) []*model.Friendship {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.Friendship
	for _, f := range s.edges {
		if keep(f) {
			clone := *f
			out = append(out, &clone)
		}
	}
	return out
}
