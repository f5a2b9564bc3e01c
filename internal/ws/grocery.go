package ws

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/crumbapp/crumb-api/internal/logger"
	"github.com/crumbapp/crumb-api/internal/models"
	"github.com/crumbapp/crumb-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WebSocket message types for the grocery list sync protocol.
const (
	MsgTypeAddItem     = "add_item"     // Client adds a free-form item
	MsgTypeCheckItem   = "check_item"   // Client toggles an item's checked state
	MsgTypeRemoveItem  = "remove_item"  // Client removes an item
	MsgTypeListUpdated = "list_updated" // Server pushes the updated list state
	MsgTypeError       = "error"        // Error message
	MsgTypeConnected   = "connected"    // Connection confirmed
)

// WSMessage is the envelope for all messages sent over the grocery WebSocket.
type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AddItemPayload is sent by the client to add an item to the list.
type AddItemPayload struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"`
}

// CheckItemPayload toggles an item's checked state.
type CheckItemPayload struct {
	ItemID  string `json:"item_id"`
	Checked bool   `json:"checked"`
}

// RemoveItemPayload removes an item from the list.
type RemoveItemPayload struct {
	ItemID string `json:"item_id"`
}

// ListUpdatedPayload carries the full list state after a mutation.
type ListUpdatedPayload struct {
	List *models.GroceryList `json:"list"`
}

// ErrorPayload carries an error message to the client.
type ErrorPayload struct {
	Message string `json:"message"`
}

// ConnectedPayload confirms a successful connection.
type ConnectedPayload struct {
	ListID string `json:"list_id"`
	UserID uint   `json:"user_id"`
}

// GrocerySyncHandler manages WebSocket connections for live grocery list sync.
type GrocerySyncHandler struct {
	Hub            *Hub
	JwtSecret      string
	UserService    *service.UserService
	GroceryService *service.GroceryService
}

// NewGrocerySyncHandler returns a new GrocerySyncHandler.
func NewGrocerySyncHandler(hub *Hub, jwtSecret string, userService *service.UserService, groceryService *service.GroceryService) *GrocerySyncHandler {
	return &GrocerySyncHandler{
		Hub:            hub,
		JwtSecret:      jwtSecret,
		UserService:    userService,
		GroceryService: groceryService,
	}
}

// upgrader is configured for grocery sync WebSocket upgrades.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		switch origin {
		case "https://crumbapp.io",
			"https://www.crumbapp.io",
			"https://api.crumbapp.io":
			return true
		}
		// Allow localhost for development
		if strings.HasPrefix(origin, "http://localhost:") || origin == "http://localhost" {
			return true
		}
		return false
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// HandleListSession upgrades an HTTP request to a WebSocket connection for a
// grocery list. Authentication is done via a "token" query parameter because
// WebSocket connections cannot easily use Authorization headers.
func (gh *GrocerySyncHandler) HandleListSession(c *gin.Context) {
	log := logger.Get()

	listIDParam := c.Param("list_id")
	listID, err := strconv.ParseUint(listIDParam, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid list_id"})
		return
	}

	// Authenticate via query param token
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "token query parameter is required"})
		return
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(gh.JwtSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
		return
	}

	// Ensure this is an access token
	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != "access" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid token type"})
		return
	}

	// Extract user ID
	idFloat, ok := claims["user_id"].(float64)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid user_id in token"})
		return
	}
	userID := uint(idFloat)

	user, err := gh.UserService.GetUserByID(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unknown user"})
		return
	}

	// Only the list owner may join its room.
	if _, err := gh.GroceryService.GetList(user, uint(listID)); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"message": "list not accessible"})
		return
	}

	// Upgrade to WebSocket
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed",
			zap.String("list_id", listIDParam),
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return
	}

	// Create client and register with hub
	client := &Client{
		Hub:    gh.Hub,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		ListID: listIDParam,
		UserID: userID,
	}
	gh.Hub.Register <- client

	// Send connected confirmation
	connectedPayload, _ := json.Marshal(ConnectedPayload{
		ListID: listIDParam,
		UserID: userID,
	})
	connectedMsg, _ := json.Marshal(WSMessage{
		Type:    MsgTypeConnected,
		Payload: connectedPayload,
	})
	client.Send <- connectedMsg

	log.Info("grocery sync session started",
		zap.String("list_id", listIDParam),
		zap.Uint("user_id", userID),
	)

	// Start read and write pumps
	go client.WritePump()
	go client.ReadPump(func(cl *Client, data []byte) {
		gh.handleMessage(cl, user, uint(listID), data)
	})
}

// handleMessage parses an incoming WebSocket message, applies the mutation,
// and broadcasts the updated list state to every client in the room.
func (gh *GrocerySyncHandler) handleMessage(client *Client, user *models.User, listID uint, data []byte) {
	log := logger.Get()

	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		gh.sendError(client, "invalid message format")
		return
	}

	log.Debug("received ws message",
		zap.String("type", msg.Type),
		zap.String("list_id", client.ListID),
		zap.Uint("user_id", client.UserID),
	)

	var list *models.GroceryList
	var err error

	switch msg.Type {
	case MsgTypeAddItem:
		var payload AddItemPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.Name == "" {
			gh.sendError(client, "invalid add_item payload")
			return
		}
		list, err = gh.GroceryService.AddItems(user, listID, []service.GroceryItemInput{
			{Name: payload.Name, Quantity: payload.Quantity},
		})

	case MsgTypeCheckItem:
		var payload CheckItemPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.ItemID == "" {
			gh.sendError(client, "invalid check_item payload")
			return
		}
		list, err = gh.GroceryService.SetItemChecked(user, listID, payload.ItemID, payload.Checked)

	case MsgTypeRemoveItem:
		var payload RemoveItemPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.ItemID == "" {
			gh.sendError(client, "invalid remove_item payload")
			return
		}
		list, err = gh.GroceryService.RemoveItem(user, listID, payload.ItemID)

	default:
		gh.sendError(client, "unknown message type: "+msg.Type)
		return
	}

	if err != nil {
		log.Error("failed to apply list mutation",
			zap.String("type", msg.Type),
			zap.String("list_id", client.ListID),
			zap.Uint("user_id", client.UserID),
			zap.Error(err),
		)
		gh.sendError(client, "failed to update list")
		return
	}

	updatedPayload, _ := json.Marshal(ListUpdatedPayload{List: list})
	updatedMsg, _ := json.Marshal(WSMessage{
		Type:    MsgTypeListUpdated,
		Payload: updatedPayload,
	})

	// Everyone in the room, sender included, converges on the same state.
	gh.Hub.Broadcast <- &ListMessage{
		ListID:  client.ListID,
		Message: updatedMsg,
		Sender:  nil,
	}
}

// sendError sends an error message to a single client.
func (gh *GrocerySyncHandler) sendError(client *Client, message string) {
	errPayload, _ := json.Marshal(ErrorPayload{
		Message: message,
	})
	errMsg, _ := json.Marshal(WSMessage{
		Type:    MsgTypeError,
		Payload: errPayload,
	})
	client.Send <- errMsg
}
