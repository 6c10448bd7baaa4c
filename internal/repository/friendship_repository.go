package repository

import (
	"errors"

	"chat-app/internal/model"

	"gorm.io/gorm"
)

// FriendshipRepository 好友关系数据仓储
type FriendshipRepository struct {
	db *gorm.DB
}

// NewFriendshipRepository 创建FriendshipRepository实例
func NewFriendshipRepository(db *gorm.DB) *FriendshipRepository {
	return &FriendshipRepository{db: db}
}

// Create 创建好友关系边
func (r *FriendshipRepository) Create(f *model.Friendship) error {
	return r.db.Create(f).Error
}

// Save 保存好友关系边（状态迁移后落库）
func (r *FriendshipRepository) Save(f *model.Friendship) error {
	return r.db.Save(f).Error
}

// GetByID 根据ID获取好友关系边
func (r *FriendshipRepository) GetByID(id uint) (*model.Friendship, error) {
	var f model.Friendship
	if err := r.db.First(&f, id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

// FindBetween 查找两个用户之间的边（不区分方向）
// 不存在时返回 (nil, nil)
func (r *FriendshipRepository) FindBetween(userID1, userID2 uint) (*model.Friendship, error) {
	var f model.Friendship
	err := r.db.Where(
		"(requester_id = ? AND recipient_id = ?) OR (requester_id = ? AND recipient_id = ?)",
		userID1, userID2, userID2, userID1,
	).First(&f).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

// ListPendingReceived 列出用户收到的待处理请求
func (r *FriendshipRepository) ListPendingReceived(userID uint) ([]*model.Friendship, error) {
	var edges []*model.Friendship
	err := r.db.Where("recipient_id = ? AND status = ?", userID, model.FriendshipStatusPending).
		Order("created_at DESC").
		Find(&edges).Error
	return edges, err
}

// ListPendingSent 列出用户发出的待处理请求
func (r *FriendshipRepository) ListPendingSent(userID uint) ([]*model.Friendship, error) {
	var edges []*model.Friendship
	err := r.db.Where("requester_id = ? AND status = ?", userID, model.FriendshipStatusPending).
		Order("created_at DESC").
		Find(&edges).Error
	return edges, err
}

// ListAccepted 列出用户参与的全部已接受边（双向）
func (r *FriendshipRepository) ListAccepted(userID uint) ([]*model.Friendship, error) {
	var edges []*model.Friendship
	err := r.db.Where("(requester_id = ? OR recipient_id = ?) AND status = ?",
		userID, userID, model.FriendshipStatusAccepted).
		Find(&edges).Error
	return edges, err
}

// CountAccepted 统计用户的已接受边数量
func (r *FriendshipRepository) CountAccepted(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Friendship{}).
		Where("(requester_id = ? OR recipient_id = ?) AND status = ?",
			userID, userID, model.FriendshipStatusAccepted).
		Count(&count).Error
	return count, err
}
