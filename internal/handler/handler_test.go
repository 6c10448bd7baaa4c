package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"chat-app/config"
	"chat-app/internal/repository/memory"
	"chat-app/internal/service"
	"chat-app/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 端到端测试：真实路由 + 真实JWT中间件 + 内存仓储

type testApp struct {
	router *gin.Engine
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtSvc := jwt.NewJWTService(config.JWTConfig{
		Secret:     "test-secret",
		ExpireTime: time.Hour,
		Issuer:     "chat-app",
	})
	users := memory.NewUserStore()
	friendships := memory.NewFriendshipStore()
	userSvc := service.NewUserService(users, jwtSvc)
	friendshipSvc := service.NewFriendshipService(friendships, users)

	userHandler := NewUserHandler(userSvc)
	friendHandler := NewFriendHandler(friendshipSvc, userSvc)

	r := gin.New()
	api := r.Group("/api")
	{
		api.POST("/register", userHandler.Register)
		api.POST("/login", userHandler.Login)

		authed := api.Group("")
		authed.Use(jwtSvc.AuthMiddleware())
		{
			authed.GET("/send-friend-request", friendHandler.SendFriendRequest)
			authed.GET("/pending-friend-requests", friendHandler.PendingFriendRequests)
			authed.GET("/accept-friend-request", friendHandler.AcceptFriendRequest)
			authed.GET("/friends", friendHandler.ListFriends)
		}
	}
	return &testApp{router: r}
}

func (a *testApp) postForm(t *testing.T, path string, form url.Values) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(t, req)
}

func (a *testApp) get(t *testing.T, path, token string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return a.do(t, req)
}

func (a *testApp) do(t *testing.T, req *http.Request) (int, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

// register 注册用户并返回登录令牌
func (a *testApp) register(t *testing.T, username string) string {
	t.Helper()
	code, _ := a.postForm(t, "/api/register", url.Values{
		"username":  {username},
		"firstName": {"Test"},
		"lastName":  {"User"},
		"email":     {username + "@example.com"},
		"password":  {"pass1234"},
	})
	require.Equal(t, http.StatusOK, code)

	code, body := a.postForm(t, "/api/login", url.Values{
		"username": {username},
		"password": {"pass1234"},
	})
	require.Equal(t, http.StatusOK, code)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegisterEndpoint(t *testing.T) {
	app := newTestApp(t)

	code, body := app.postForm(t, "/api/register", url.Values{
		"username":  {"alice"},
		"firstName": {"Alice"},
		"lastName":  {"Liddell"},
		"email":     {"alice@example.com"},
		"password":  {"wonderland"},
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "User registered successfully.", body["message"])
	assert.NotEmpty(t, body["verificationToken"])

	user, ok := body["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, "alice@example.com", user["email"])
	// 敏感字段不对外暴露
	assert.NotContains(t, user, "passwordHash")
	assert.NotContains(t, user, "loginAttempts")
}

func TestRegisterEndpoint_Validation(t *testing.T) {
	app := newTestApp(t)

	code, body := app.postForm(t, "/api/register", url.Values{
		"username": {"alice"},
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "all fields are required", body["message"])
}

func TestRegisterEndpoint_DuplicateEmail(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "alice")

	code, body := app.postForm(t, "/api/register", url.Values{
		"username":  {"alice2"},
		"firstName": {"Alice"},
		"lastName":  {"Two"},
		"email":     {"alice@example.com"},
		"password":  {"pass1234"},
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "email already exists", body["message"])
}

func TestLoginEndpoint_BadCredentials(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "alice")

	code, body := app.postForm(t, "/api/login", url.Values{
		"username": {"alice"},
		"password": {"wrong"},
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid credentials", body["message"])

	code, body = app.postForm(t, "/api/login", url.Values{
		"username": {"ghost"},
		"password": {"whatever"},
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "user not found", body["message"])
}

func TestAuthGateway(t *testing.T) {
	app := newTestApp(t)

	// 缺少令牌 → 401
	code, body := app.get(t, "/api/friends", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "access token required", body["message"])

	// 非法令牌 → 403
	code, body = app.get(t, "/api/friends", "not-a-jwt")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "invalid token", body["message"])
}

func TestSendFriendRequestEndpoint(t *testing.T) {
	app := newTestApp(t)
	aliceToken := app.register(t, "alice")
	app.register(t, "bob")

	// 缺少参数
	code, _ := app.get(t, "/api/send-friend-request", aliceToken)
	assert.Equal(t, http.StatusBadRequest, code)

	// 目标用户不存在
	code, body := app.get(t, "/api/send-friend-request?friendUsername=ghost", aliceToken)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "friend not found", body["message"])

	// 自己加自己
	code, body = app.get(t, "/api/send-friend-request?friendUsername=alice", aliceToken)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "users cannot befriend themselves", body["message"])

	// 正常发送
	code, body = app.get(t, "/api/send-friend-request?friendUsername=bob", aliceToken)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Friend request sent", body["message"])

	// 重复发送
	code, body = app.get(t, "/api/send-friend-request?friendUsername=bob", aliceToken)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "friendship already exists", body["message"])
}

func TestAcceptFriendRequestEndpoint(t *testing.T) {
	app := newTestApp(t)
	aliceToken := app.register(t, "alice")
	bobToken := app.register(t, "bob")

	code, _ := app.get(t, "/api/send-friend-request?friendUsername=bob", aliceToken)
	require.Equal(t, http.StatusOK, code)

	// bob 读取收到的待处理请求，拿到 friendshipId
	code, body := app.get(t, "/api/pending-friend-requests", bobToken)
	require.Equal(t, http.StatusOK, code)
	requests, ok := body["requests"].([]interface{})
	require.True(t, ok)
	require.Len(t, requests, 1)
	first := requests[0].(map[string]interface{})
	friendshipID := strconv.Itoa(int(first["id"].(float64)))

	// 非法参数
	code, _ = app.get(t, "/api/accept-friend-request?friendshipId=abc", bobToken)
	assert.Equal(t, http.StatusBadRequest, code)

	// 不存在的边
	code, body = app.get(t, "/api/accept-friend-request?friendshipId=999", bobToken)
	assert.Equal(t, http.StatusNotFound, code)

	// 发起方不能接受自己发出的请求
	code, body = app.get(t, "/api/accept-friend-request?friendshipId="+friendshipID, aliceToken)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Contains(t, body["message"], "only the recipient")

	// 接收方接受
	code, body = app.get(t, "/api/accept-friend-request?friendshipId="+friendshipID, bobToken)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Friend request accepted", body["message"])
}

// 完整场景：注册两人、发送请求、查看待处理、接受、双方好友列表
func TestFriendshipFlow(t *testing.T) {
	app := newTestApp(t)
	aliceToken := app.register(t, "alice")
	bobToken := app.register(t, "bob")

	code, _ := app.get(t, "/api/send-friend-request?friendUsername=bob", aliceToken)
	require.Equal(t, http.StatusOK, code)

	// alice 发出的待处理请求
	code, body := app.get(t, "/api/pending-friend-requests?type=sent", aliceToken)
	require.Equal(t, http.StatusOK, code)
	sent := body["requests"].([]interface{})
	require.Len(t, sent, 1)
	sentReq := sent[0].(map[string]interface{})
	assert.Equal(t, "alice", sentReq["requester"].(map[string]interface{})["username"])
	assert.Equal(t, "bob", sentReq["recipient"].(map[string]interface{})["username"])
	assert.Equal(t, "pending", sentReq["status"])

	// bob 收到的待处理请求
	code, body = app.get(t, "/api/pending-friend-requests", bobToken)
	require.Equal(t, http.StatusOK, code)
	received := body["requests"].([]interface{})
	require.Len(t, received, 1)
	recvReq := received[0].(map[string]interface{})
	friendshipID := strconv.Itoa(int(recvReq["id"].(float64)))

	// 接受前双方好友列表为空
	code, body = app.get(t, "/api/friends", aliceToken)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["friends"])

	code, _ = app.get(t, "/api/accept-friend-request?friendshipId="+friendshipID, bobToken)
	require.Equal(t, http.StatusOK, code)

	// 接受后双方各自看到对方恰好一次
	code, body = app.get(t, "/api/friends", aliceToken)
	require.Equal(t, http.StatusOK, code)
	aliceFriends := body["friends"].([]interface{})
	require.Len(t, aliceFriends, 1)
	assert.Equal(t, "bob", aliceFriends[0].(map[string]interface{})["username"])

	code, body = app.get(t, "/api/friends", bobToken)
	require.Equal(t, http.StatusOK, code)
	bobFriends := body["friends"].([]interface{})
	require.Len(t, bobFriends, 1)
	assert.Equal(t, "alice", bobFriends[0].(map[string]interface{})["username"])

	// 待处理列表已清空
	code, body = app.get(t, "/api/pending-friend-requests", bobToken)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["requests"])
}
