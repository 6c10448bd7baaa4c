package handler

import (
	"strconv"

	"chat-app/internal/service"
	"chat-app/pkg/errs"
	"chat-app/pkg/jwt"
	"chat-app/pkg/logger"
	"chat-app/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FriendHandler 好友关系接口，均需JWT认证
type FriendHandler struct {
	friendships *service.FriendshipService
	users       *service.UserService
}

// NewFriendHandler 创建FriendHandler实例
func NewFriendHandler(friendships *service.FriendshipService, users *service.UserService) *FriendHandler {
	return &FriendHandler{friendships: friendships, users: users}
}

// SendFriendRequest 发送好友请求
// GET /api/send-friend-request?friendUsername=xxx
func (h *FriendHandler) SendFriendRequest(c *gin.Context) {
	friendUsername := c.Query("friendUsername")
	if friendUsername == "" {
		response.BadRequest(c, "friendUsername is required")
		return
	}

	friend, err := h.users.GetByUsername(friendUsername)
	if err != nil {
		if errs.Is(err, errs.ErrUserNotFound) {
			response.NotFound(c, "friend not found")
			return
		}
		response.FromError(c, err)
		return
	}

	callerID := jwt.GetUserID(c)
	if _, err := h.friendships.CreateFriendRequest(callerID, friend.ID, service.FriendshipMetadata{}); err != nil {
		response.FromError(c, err)
		return
	}

	logger.Info("好友请求已发送",
		zap.Uint("requester_id", callerID),
		zap.Uint("recipient_id", friend.ID),
	)
	response.OK(c, "Friend request sent")
}

// PendingFriendRequests 待处理好友请求列表
// GET /api/pending-friend-requests?type=received|sent（缺省received）
func (h *FriendHandler) PendingFriendRequests(c *gin.Context) {
	direction := c.DefaultQuery("type", service.DirectionReceived)

	requests, err := h.friendships.ListPendingRequests(jwt.GetUserID(c), direction)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "Pending friend requests", gin.H{
		"requests": requests,
	})
}

// AcceptFriendRequest 接受好友请求
// GET /api/accept-friend-request?friendshipId=N
func (h *FriendHandler) AcceptFriendRequest(c *gin.Context) {
	friendshipID, err := strconv.ParseUint(c.Query("friendshipId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid friendshipId")
		return
	}

	callerID := jwt.GetUserID(c)
	f, err := h.friendships.AcceptFriendRequest(uint(friendshipID), callerID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	logger.Info("好友请求已接受",
		zap.Uint("friendship_id", f.ID),
		zap.Uint("recipient_id", callerID),
	)
	response.OK(c, "Friend request accepted")
}

// ListFriends 好友列表
// GET /api/friends
func (h *FriendHandler) ListFriends(c *gin.Context) {
	friends, err := h.friendships.ListFriends(jwt.GetUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "Friends", gin.H{
		"friends": friends,
	})
}
