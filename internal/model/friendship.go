package model

import (
	"time"

	"gorm.io/gorm"
)

// 好友关系状态
// pending 为唯一初始状态，accepted/declined/blocked 为终态，终态之间不再迁移
const (
	FriendshipStatusPending  = "pending"
	FriendshipStatusAccepted = "accepted"
	FriendshipStatusDeclined = "declined"
	FriendshipStatusBlocked  = "blocked"
)

// 好友请求来源
const (
	FriendshipSourceDirect        = "direct"
	FriendshipSourceSearch        = "search"
	FriendshipSourceSuggestion    = "suggestion"
	FriendshipSourceContactImport = "contact_import"
)

// Friendship 好友关系（有向请求边）
// RequesterID 为发起方，RecipientID 为接收方
// 唯一约束建立在有序对 (requester_id, recipient_id) 上，
// 应用层在插入前额外检查两个方向，约束本身是并发下的最终保障
// AcceptedAt 仅在首次进入 accepted 时写入一次

type Friendship struct {
	ID          uint           `gorm:"primaryKey"`
	RequesterID uint           `gorm:"not null;uniqueIndex:idx_requester_recipient,priority:1;index:idx_requester_status;comment:发起方用户ID"`
	RecipientID uint           `gorm:"not null;uniqueIndex:idx_requester_recipient,priority:2;index:idx_recipient_status;comment:接收方用户ID"`
	Status      string         `gorm:"type:varchar(16);not null;default:'pending';index:idx_requester_status,priority:2;index:idx_recipient_status,priority:2;comment:关系状态"`
	AcceptedAt  *time.Time     `gorm:"comment:接受时间(仅首次接受时写入)"`
	Source      string         `gorm:"type:varchar(32);default:'direct';comment:请求来源"`
	Notes       string         `gorm:"type:varchar(500);comment:备注"`
	CreatedAt   time.Time      `gorm:"comment:创建时间"`
	UpdatedAt   time.Time      `gorm:"comment:更新时间"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Friendship) TableName() string { return "friendship" }

// OtherUserID 返回这条边上相对 userID 的另一方
func (f *Friendship) OtherUserID(userID uint) uint {
	if f.RequesterID == userID {
		return f.RecipientID
	}
	return f.RequesterID
}

// Involves 判断 userID 是否为这条边的任意一方
func (f *Friendship) Involves(userID uint) bool {
	return f.RequesterID == userID || f.RecipientID == userID
}
