package service

import (
	"errors"
	"time"

	"chat-app/internal/model"
	"chat-app/pkg/errs"

	"gorm.io/gorm"
)

// 待处理请求列表方向
const (
	DirectionReceived = "received"
	DirectionSent     = "sent"
)

// FriendshipMetadata 创建请求时的可选元数据
type FriendshipMetadata struct {
	Source string
	Notes  string
}

// UserIdentity 边上一方的对外身份
type UserIdentity struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar,omitempty"`
}

// PendingRequest 待处理请求视图，双方身份均已解析
type PendingRequest struct {
	ID        uint         `json:"id"`
	Requester UserIdentity `json:"requester"`
	Recipient UserIdentity `json:"recipient"`
	Status    string       `json:"status"`
	Source    string       `json:"source,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

// FriendInfo 好友列表条目：边上相对调用方的另一方
type FriendInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// FriendshipService 好友关系工作流
// 核心规则：禁止自我好友、无序对唯一、pending 为唯一初始状态、
// AcceptedAt 仅在首次接受时写入
type FriendshipService struct {
	friendships FriendshipStore
	users       UserStore
}

// NewFriendshipService 创建FriendshipService实例
func NewFriendshipService(friendships FriendshipStore, users UserStore) *FriendshipService {
	return &FriendshipService{friendships: friendships, users: users}
}

// CreateFriendRequest 创建好友请求
// 前置条件：requesterID != recipientID
// 两个方向上已存在任何状态的边都会拒绝新请求（不提供重新请求路径）
// 应用层存在性检查只是优化，存储层唯一约束才是并发下的最终保障
func (s *FriendshipService) CreateFriendRequest(requesterID, recipientID uint, meta FriendshipMetadata) (*model.Friendship, error) {
	if requesterID == recipientID {
		return nil, errs.ErrSelfFriendship
	}

	existing, err := s.friendships.FindBetween(requesterID, recipientID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errs.ErrFriendshipExists
	}

	source := meta.Source
	if source == "" {
		source = model.FriendshipSourceDirect
	}

	f := &model.Friendship{
		RequesterID: requesterID,
		RecipientID: recipientID,
		Status:      model.FriendshipStatusPending,
		Source:      source,
		Notes:       meta.Notes,
	}
	if err := s.friendships.Create(f); err != nil {
		// 并发下双方同时发起时，一方会在此处撞上唯一约束
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.ErrFriendshipExists.Wrap(err)
		}
		return nil, err
	}
	return f, nil
}

// AcceptFriendRequest 接受好友请求
// 仅允许接收方接受；AcceptedAt 只在首次进入 accepted 时写入
func (s *FriendshipService) AcceptFriendRequest(friendshipID, callerID uint) (*model.Friendship, error) {
	f, err := s.getEdge(friendshipID)
	if err != nil {
		return nil, err
	}
	if f.RecipientID != callerID {
		return nil, errs.ErrNotRecipient
	}

	f.Status = model.FriendshipStatusAccepted
	if f.AcceptedAt == nil {
		now := time.Now()
		f.AcceptedAt = &now
	}
	if err := s.friendships.Save(f); err != nil {
		return nil, err
	}
	return f, nil
}

// DeclineFriendRequest 拒绝好友请求（仅接收方）
func (s *FriendshipService) DeclineFriendRequest(friendshipID, callerID uint) (*model.Friendship, error) {
	f, err := s.getEdge(friendshipID)
	if err != nil {
		return nil, err
	}
	if f.RecipientID != callerID {
		return nil, errs.ErrNotRecipient
	}

	f.Status = model.FriendshipStatusDeclined
	if err := s.friendships.Save(f); err != nil {
		return nil, err
	}
	return f, nil
}

// BlockFriendship 拉黑（边上任意一方均可发起）
func (s *FriendshipService) BlockFriendship(friendshipID, callerID uint) (*model.Friendship, error) {
	f, err := s.getEdge(friendshipID)
	if err != nil {
		return nil, err
	}
	if !f.Involves(callerID) {
		return nil, errs.ErrNotRecipient
	}

	f.Status = model.FriendshipStatusBlocked
	if err := s.friendships.Save(f); err != nil {
		return nil, err
	}
	return f, nil
}

// ListPendingRequests 列出待处理请求
// direction 为 sent 时列出用户发出的请求，其余一律按 received 处理
func (s *FriendshipService) ListPendingRequests(userID uint, direction string) ([]*PendingRequest, error) {
	var (
		edges []*model.Friendship
		err   error
	)
	if direction == DirectionSent {
		edges, err = s.friendships.ListPendingSent(userID)
	} else {
		edges, err = s.friendships.ListPendingReceived(userID)
	}
	if err != nil {
		return nil, err
	}

	requests := make([]*PendingRequest, 0, len(edges))
	for _, f := range edges {
		requests = append(requests, &PendingRequest{
			ID:        f.ID,
			Requester: s.resolveIdentity(f.RequesterID),
			Recipient: s.resolveIdentity(f.RecipientID),
			Status:    f.Status,
			Source:    f.Source,
			CreatedAt: f.CreatedAt,
		})
	}
	return requests, nil
}

// ListFriends 列出好友
// 对每条已接受的边投影出相对 userID 的另一方身份，调用方不会出现在结果里
func (s *FriendshipService) ListFriends(userID uint) ([]*FriendInfo, error) {
	edges, err := s.friendships.ListAccepted(userID)
	if err != nil {
		return nil, err
	}

	friends := make([]*FriendInfo, 0, len(edges))
	for _, f := range edges {
		identity := s.resolveIdentity(f.OtherUserID(userID))
		friends = append(friends, &FriendInfo{
			ID:       identity.ID,
			Username: identity.Username,
			Email:    identity.Email,
		})
	}
	return friends, nil
}

// AreFriends 两个用户之间是否存在已接受的边（不区分方向）
func (s *FriendshipService) AreFriends(userID1, userID2 uint) (bool, error) {
	f, err := s.friendships.FindBetween(userID1, userID2)
	if err != nil {
		return false, err
	}
	return f != nil && f.Status == model.FriendshipStatusAccepted, nil
}

// FriendCount 用户的好友数量
func (s *FriendshipService) FriendCount(userID uint) (int64, error) {
	return s.friendships.CountAccepted(userID)
}

// getEdge 按ID取边，缺失映射为业务错误
func (s *FriendshipService) getEdge(friendshipID uint) (*model.Friendship, error) {
	f, err := s.friendships.GetByID(friendshipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrFriendshipNotFound.Wrap(err)
		}
		return nil, err
	}
	return f, nil
}

// resolveIdentity 解析用户身份，用户缺失时只保留ID
func (s *FriendshipService) resolveIdentity(userID uint) UserIdentity {
	u, err := s.users.GetByID(userID)
	if err != nil {
		return UserIdentity{ID: userID}
	}
	return UserIdentity{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Avatar:   u.Avatar,
	}
}
