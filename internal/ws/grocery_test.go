package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/crumbapp/crumb-api/internal/config"
	"github.com/crumbapp/crumb-api/internal/models"
	"github.com/crumbapp/crumb-api/internal/service"
	"github.com/crumbapp/crumb-api/internal/testutil"
)

// setupTestGrocerySyncHandler creates a GrocerySyncHandler backed by in-memory
// repos and a running Hub. The returned list belongs to testutil.TestUser().
func setupTestGrocerySyncHandler() (*GrocerySyncHandler, *models.User, *models.GroceryList) {
	cfg := &config.Config{}
	groceryRepo := testutil.NewMockGroceryRepo()
	recipeRepo := testutil.NewMockRecipeRepo()
	userRepo := testutil.NewMockUserRepo()

	userService := service.NewUserService(cfg, userRepo)
	groceryService := service.NewGroceryService(cfg, groceryRepo, recipeRepo)

	user := testutil.TestUser()
	list := testutil.TestGroceryList(0, user.ID)
	if err := groceryRepo.CreateList(list); err != nil {
		panic(err)
	}

	hub := NewHub()
	go hub.Run()

	return NewGrocerySyncHandler(hub, "test-secret", userService, groceryService), user, list
}

// newTestClient creates a Client with a buffered Send channel and no real
// websocket.Conn, then registers it with the hub so broadcasts reach it.
func newTestClient(t *testing.T, hub *Hub, listID string, userID uint) *Client {
	t.Helper()
	client := &Client{
		Hub:    hub,
		Send:   make(chan []byte, 256),
		ListID: listID,
		UserID: userID,
	}
	hub.Register <- client

	deadline := time.Now().Add(2 * time.Second)
	for {
		hub.mu.RLock()
		_, registered := hub.Rooms[listID][client]
		hub.mu.RUnlock()
		if registered {
			return client
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for client registration")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// readMessage reads a single WSMessage from the client's Send channel with a
// timeout to prevent tests from hanging.
func readMessage(t *testing.T, client *Client) WSMessage {
	t.Helper()
	select {
	case data := <-client.Send:
		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("failed to unmarshal message from Send channel: %v", err)
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message on Send channel")
		return WSMessage{}
	}
}

func marshalWSMessage(t *testing.T, msgType string, payload interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	data, err := json.Marshal(WSMessage{Type: msgType, Payload: raw})
	if err != nil {
		t.Fatalf("failed to marshal envelope: %v", err)
	}
	return data
}

func readListUpdated(t *testing.T, client *Client) *models.GroceryList {
	t.Helper()
	msg := readMessage(t, client)
	if msg.Type != MsgTypeListUpdated {
		t.Fatalf("expected type %q, got %q", MsgTypeListUpdated, msg.Type)
	}
	var payload ListUpdatedPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		t.Fatalf("failed to unmarshal ListUpdatedPayload: %v", err)
	}
	if payload.List == nil {
		t.Fatal("expected non-nil list in list_updated payload")
	}
	return payload.List
}

func TestHandleMessage_AddItemBroadcastsToRoom(t *testing.T) {
	gh, user, list := setupTestGrocerySyncHandler()
	listID := "1"
	sender := newTestClient(t, gh.Hub, listID, user.ID)
	observer := newTestClient(t, gh.Hub, listID, user.ID)

	data := marshalWSMessage(t, MsgTypeAddItem, AddItemPayload{
		Name:     "butter",
		Quantity: "2 sticks",
	})
	gh.handleMessage(sender, user, list.ID, data)

	for _, client := range []*Client{sender, observer} {
		updated := readListUpdated(t, client)
		if len(updated.Items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(updated.Items))
		}
		if updated.Items[0].Name != "butter" {
			t.Errorf("unexpected item name: %q", updated.Items[0].Name)
		}
		if updated.Items[0].Quantity != "2 sticks" {
			t.Errorf("unexpected item quantity: %q", updated.Items[0].Quantity)
		}
	}
}

func TestHandleMessage_CheckAndRemoveItem(t *testing.T) {
	gh, user, list := setupTestGrocerySyncHandler()
	client := newTestClient(t, gh.Hub, "1", user.ID)

	gh.handleMessage(client, user, list.ID, marshalWSMessage(t, MsgTypeAddItem, AddItemPayload{Name: "eggs"}))
	updated := readListUpdated(t, client)
	itemID := updated.Items[0].ID

	gh.handleMessage(client, user, list.ID, marshalWSMessage(t, MsgTypeCheckItem, CheckItemPayload{
		ItemID:  itemID,
		Checked: true,
	}))
	updated = readListUpdated(t, client)
	if !updated.Items[0].Checked {
		t.Error("expected item to be checked")
	}

	gh.handleMessage(client, user, list.ID, marshalWSMessage(t, MsgTypeRemoveItem, RemoveItemPayload{
		ItemID: itemID,
	}))
	updated = readListUpdated(t, client)
	if len(updated.Items) != 0 {
		t.Errorf("expected empty list after removal, got %d items", len(updated.Items))
	}
}

func TestHandleMessage_InvalidPayloadSendsError(t *testing.T) {
	gh, user, list := setupTestGrocerySyncHandler()
	client := newTestClient(t, gh.Hub, "1", user.ID)

	gh.handleMessage(client, user, list.ID, marshalWSMessage(t, MsgTypeAddItem, AddItemPayload{Name: ""}))

	msg := readMessage(t, client)
	if msg.Type != MsgTypeError {
		t.Fatalf("expected error type, got %q", msg.Type)
	}
	var errPayload ErrorPayload
	if err := json.Unmarshal(msg.Payload, &errPayload); err != nil {
		t.Fatalf("failed to unmarshal ErrorPayload: %v", err)
	}
	if errPayload.Message != "invalid add_item payload" {
		t.Errorf("unexpected error message: %q", errPayload.Message)
	}
}

func TestHandleMessage_UnknownTypeSendsError(t *testing.T) {
	gh, user, list := setupTestGrocerySyncHandler()
	client := newTestClient(t, gh.Hub, "1", user.ID)

	gh.handleMessage(client, user, list.ID, marshalWSMessage(t, "make_dinner", struct{}{}))

	msg := readMessage(t, client)
	if msg.Type != MsgTypeError {
		t.Fatalf("expected error type, got %q", msg.Type)
	}
}

func TestHandleMessage_MalformedJSONSendsError(t *testing.T) {
	gh, user, list := setupTestGrocerySyncHandler()
	client := newTestClient(t, gh.Hub, "1", user.ID)

	gh.handleMessage(client, user, list.ID, []byte("{not json"))

	msg := readMessage(t, client)
	if msg.Type != MsgTypeError {
		t.Fatalf("expected error type, got %q", msg.Type)
	}
}
