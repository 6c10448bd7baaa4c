package service

import (
	"time"

	"chat-app/internal/model"
)

// UserStore 用户持久化能力
// 由 repository.UserRepository 提供生产实现，测试中用内存实现替换
type UserStore interface {
	Create(user *model.User) error
	Save(user *model.User) error
	GetByID(id uint) (*model.User, error)
	GetByUsername(username string) (*model.User, error)
	GetByEmail(email string) (*model.User, error)
	GetByUsernameOrEmail(identifier string) (*model.User, error)
	ExistsByEmail(email string) (bool, error)
	UpdateLoginState(id uint, attempts int, lockUntil *time.Time) error
	UpdateLastLogin(id uint, at time.Time) error
}

// FriendshipStore 好友关系持久化能力
type FriendshipStore interface {
	Create(f *model.Friendship) error
	Save(f *model.Friendship) error
	GetByID(id uint) (*model.Friendship, error)
	FindBetween(userID1, userID2 uint) (*model.Friendship, error)
	ListPendingReceived(userID uint) ([]*model.Friendship, error)
	ListPendingSent(userID uint) ([]*model.Friendship, error)
	ListAccepted(userID uint) ([]*model.Friendship, error)
	CountAccepted(userID uint) (int64, error)
}
