package realtime

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/half-nothing/event-logistics/internal/interfaces/operation"
	"github.com/half-nothing/event-logistics/internal/interfaces/service"
	"github.com/labstack/echo/v4"
)

const membershipPageSize = 100

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler 必须挂在JWT中间件之后, 连接只接收调用者所属活动的消息
func (h *Hub) Handler(eventOperation operation.EventOperationInterface) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		token, ok := ctx.Get("user").(*jwt.Token)
		if !ok {
			return service.NewApiResponse[any](&service.ErrMissingOrMalformedJwt, service.Unsatisfied, nil).Response(ctx)
		}
		claims, ok := token.Claims.(*service.Claims)
		if !ok {
			return service.NewApiResponse[any](&service.ErrInvalidOrExpiredJwt, service.Unsatisfied, nil).Response(ctx)
		}

		subscription, err := LoadSubscription(eventOperation, claims.Uid, claims.Permission)
		if err != nil {
			h.logger.ErrorF("Error loading event memberships of user %d: %v", claims.Uid, err)
			return service.NewApiResponse[any](&service.ErrDatabaseFail, service.Unsatisfied, nil).Response(ctx)
		}

		conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
		if err != nil {
			h.logger.WarnF("Websocket upgrade error: %v", err)
			return nil
		}
		h.Serve(conn, subscription)
		return nil
	}
}

// LoadSubscription 管理员订阅全部活动, 其他用户只订阅连接时已加入的活动
func LoadSubscription(eventOperation operation.EventOperationInterface, uid uint, permission int64) (Subscription, error) {
	p := operation.Permission(permission)
	if p.HasPermission(operation.AdminEntry) {
		return Subscription{All: true}, nil
	}

	subscription := Subscription{Events: make(map[uint]struct{})}
	for page := 1; ; page++ {
		events, total, err := eventOperation.GetEventsByMember(uid, page, membershipPageSize)
		if err != nil {
			return Subscription{}, err
		}
		for _, event := range events {
			subscription.Events[event.ID] = struct{}{}
		}
		if len(events) < membershipPageSize || int64(page*membershipPageSize) >= total {
			return subscription, nil
		}
	}
}
