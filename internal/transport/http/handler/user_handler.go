package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"llm-usage-ledger/internal/domain"
	"llm-usage-ledger/internal/service"
	"llm-usage-ledger/internal/validate"
	"llm-usage-ledger/pkg/utils"
)

type userRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userQuery struct {
	Name  string `form:"name"`
	Email string `form:"email"`
}

type adminUserQuery struct {
	Name        string `form:"name"`
	Email       string `form:"email"`
	WithDeleted bool   `form:"with_deleted"`
}

type userView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// 后台视图带审计字段
type adminUserView struct {
	userView
	IsDeleted bool      `json:"isDeleted"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type UserHandler struct {
	users *service.UserService
	usage *service.UsageService
}

func NewUserHandler(users *service.UserService, usage *service.UsageService) *UserHandler {
	return &UserHandler{users: users, usage: usage}
}

func (h *UserHandler) Priority() int { return 30 }

func (h *UserHandler) MountAPI(g *gin.RouterGroup) {
	RegisterAction(g, Action[userRequest, int64]{
		Method:   http.MethodPost,
		Path:     "/users",
		Binder:   BindJSON,
		Status:   http.StatusCreated,
		Location: func(id int64) string { return fmt.Sprintf("/users/%d", id) },
		Handler: func(c *gin.Context, in *userRequest) (int64, error) {
			if err := validate.UserName(in.Name); err != nil {
				return 0, err
			}
			if err := validate.Email(in.Email); err != nil {
				return 0, err
			}
			if err := validate.Password(in.Password); err != nil {
				return 0, err
			}
			hash, err := utils.HashPassword(in.Password)
			if err != nil {
				return 0, domain.Internal(err)
			}
			return h.users.InsertUser(c.Request.Context(), domain.NewUser{
				Name:         in.Name,
				Email:        in.Email,
				PasswordHash: hash,
			})
		},
	})

	RegisterAction(g, Action[userQuery, []userView]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: BindQuery,
		Handler: func(c *gin.Context, in *userQuery) ([]userView, error) {
			users, err := h.users.ListUsers(c.Request.Context(), domain.UserFilter{Name: in.Name, Email: in.Email})
			if err != nil {
				return nil, err
			}
			out := make([]userView, 0, len(users))
			for _, u := range users {
				out = append(out, toUserView(u))
			}
			return out, nil
		},
	})

	RegisterAction(g, Action[struct{}, bool]{
		Method: http.MethodDelete,
		Path:   "/users/:user_id",
		Binder: BindNone,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, _ *struct{}) (bool, error) {
			id, err := pathID(c, "user_id")
			if err != nil {
				return false, err
			}
			return h.users.DeleteUser(c.Request.Context(), id)
		},
	})

	RegisterAction(g, h.usageStats())
}

// MountAdmin 后台：含软删用户的列表 + 用户统计
func (h *UserHandler) MountAdmin(g *gin.RouterGroup) {
	RegisterAction(g, Action[adminUserQuery, []adminUserView]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: BindQuery,
		Handler: func(c *gin.Context, in *adminUserQuery) ([]adminUserView, error) {
			users, err := h.users.ListUsers(c.Request.Context(), domain.UserFilter{
				Name:           in.Name,
				Email:          in.Email,
				IncludeDeleted: in.WithDeleted,
			})
			if err != nil {
				return nil, err
			}
			out := make([]adminUserView, 0, len(users))
			for _, u := range users {
				out = append(out, adminUserView{
					userView:  toUserView(u),
					IsDeleted: u.IsDeleted,
					CreatedAt: u.CreatedAt,
					UpdatedAt: u.UpdatedAt,
				})
			}
			return out, nil
		},
	})

	RegisterAction(g, h.usageStats())
}

func (h *UserHandler) usageStats() Action[struct{}, *domain.UserUsageReport] {
	return Action[struct{}, *domain.UserUsageReport]{
		Method: http.MethodGet,
		Path:   "/users/:user_id/usages",
		Binder: BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.UserUsageReport, error) {
			id, err := pathID(c, "user_id")
			if err != nil {
				return nil, err
			}
			return h.usage.UserUsageStats(c.Request.Context(), id)
		},
	}
}

func toUserView(u domain.User) userView {
	return userView{ID: u.ID, Name: u.Name, Email: u.Email}
}
