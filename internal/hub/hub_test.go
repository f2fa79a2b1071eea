package hub

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitstop/sync/internal/state"
	"github.com/pitstop/sync/pkg/models"
)

func newTestServer(t *testing.T) (*state.Store, string) {
	t.Helper()
	st := state.New()
	h := New(st)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)

	srv := httptest.NewServer(NewServer(h, nil).Router())
	t.Cleanup(srv.Close)
	return st, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame Envelope
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &frame))
	return frame
}

func expectEvent(t *testing.T, conn *websocket.Conn, event string) json.RawMessage {
	t.Helper()
	frame := readFrame(t, conn)
	require.Equal(t, event, frame.Event)
	return frame.Data
}

func expectSilence(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err, "expected no event")
}

func sendEvent(t *testing.T, conn *websocket.Conn, event string, payload any) {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, frame))
}

func TestInitialStateOnConnect(t *testing.T) {
	st, url := newTestServer(t)
	st.Replace(models.SliceCarMakes, []models.CarMake{{Name: "Toyota", Multiplier: 1.1}}, "")

	conn := dial(t, url)
	data := expectEvent(t, conn, models.EventInitialState)

	var snap models.Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, []models.CarMake{{Name: "Toyota", Multiplier: 1.1}}, snap.CarMakes)

	// All ten slices are present in the raw payload
	var keys map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &keys))
	for _, slice := range models.AllSlices {
		_, ok := keys[string(slice)]
		assert.Truef(t, ok, "initial_state missing %s", slice)
	}
}

func TestFanOutExcludesOrigin(t *testing.T) {
	st, url := newTestServer(t)

	a := dial(t, url)
	b := dial(t, url)
	c := dial(t, url)
	expectEvent(t, a, models.EventInitialState)
	expectEvent(t, b, models.EventInitialState)
	expectEvent(t, c, models.EventInitialState)

	services := []models.Service{{ID: "svc-1", Title: "Basic Service", BasePrice: 59}}
	sendEvent(t, a, "update_services", services)

	var got []models.Service
	require.NoError(t, json.Unmarshal(expectEvent(t, b, "services_updated"), &got))
	assert.Equal(t, services, got)
	require.NoError(t, json.Unmarshal(expectEvent(t, c, "services_updated"), &got))
	assert.Equal(t, services, got)

	// The origin gets no echo
	expectSilence(t, a)
	assert.Equal(t, services, st.Get(models.SliceServices))
}

func TestAddAppointmentIncludesOrigin(t *testing.T) {
	_, url := newTestServer(t)

	a := dial(t, url)
	b := dial(t, url)
	expectEvent(t, a, models.EventInitialState)
	expectEvent(t, b, models.EventInitialState)

	candidate := models.Appointment{
		CustomerName:  "Dana",
		CustomerEmail: "dana@example.com",
		CarMake:       "Toyota",
		PaymentMethod: models.PaymentCash,
		Date:          "2026-09-12",
		Time:          "10:30",
	}
	sendEvent(t, a, models.EventAddAppointment, candidate)

	for _, conn := range []*websocket.Conn{a, b} {
		var list []models.Appointment
		require.NoError(t, json.Unmarshal(expectEvent(t, conn, "appointments_updated"), &list))
		require.Len(t, list, 1)
		assert.NotEmpty(t, list[0].ID, "id must be server-assigned")
		assert.False(t, list[0].CreatedAt.IsZero(), "timestamp must be server-assigned")
		assert.Equal(t, candidate.CustomerName, list[0].CustomerName)
		assert.Equal(t, candidate.Date, list[0].Date)
		assert.Equal(t, models.StatusPending, list[0].Status)
		assert.Equal(t, models.PaymentStatusPending, list[0].PaymentStatus)
	}
}

func TestLastWriteWins(t *testing.T) {
	st, url := newTestServer(t)

	a := dial(t, url)
	b := dial(t, url)
	expectEvent(t, a, models.EventInitialState)
	expectEvent(t, b, models.EventInitialState)

	v1 := models.Settings{SiteName: "first", Phone: "111", Address: "somewhere"}
	v2 := models.Settings{SiteName: "second"}
	sendEvent(t, a, "update_settings", v1)
	sendEvent(t, a, "update_settings", v2)

	var got models.Settings
	require.NoError(t, json.Unmarshal(expectEvent(t, b, "settings_updated"), &got))
	assert.Equal(t, v1, got)
	require.NoError(t, json.Unmarshal(expectEvent(t, b, "settings_updated"), &got))
	assert.Equal(t, v2, got)

	// No partial merge: v2's empty fields win too
	assert.Equal(t, v2, st.Get(models.SliceSettings))
}

func TestRoundTripToNewConnection(t *testing.T) {
	_, url := newTestServer(t)

	a := dial(t, url)
	expectEvent(t, a, models.EventInitialState)
	sendEvent(t, a, "update_car_makes", []models.CarMake{{Name: "Toyota", Multiplier: 1.1}})

	// Give the dispatcher a moment to apply before the second client
	// snapshots.
	require.Eventually(t, func() bool {
		makes, ok := dialAndSnapshot(t, url)
		return ok && len(makes) == 1 && makes[0].Name == "Toyota" && makes[0].Multiplier == 1.1
	}, 2*time.Second, 50*time.Millisecond)
}

func dialAndSnapshot(t *testing.T, url string) ([]models.CarMake, bool) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, false
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		return nil, false
	}
	var frame Envelope
	if err := json.Unmarshal(data, &frame); err != nil || frame.Event != models.EventInitialState {
		return nil, false
	}
	var snap models.Snapshot
	if err := json.Unmarshal(frame.Data, &snap); err != nil {
		return nil, false
	}
	return snap.CarMakes, true
}

func TestDisconnectSafety(t *testing.T) {
	_, url := newTestServer(t)

	a := dial(t, url)
	b := dial(t, url)
	c := dial(t, url)
	expectEvent(t, a, models.EventInitialState)
	expectEvent(t, b, models.EventInitialState)
	expectEvent(t, c, models.EventInitialState)

	require.NoError(t, b.Close())
	// Let the hub process the disconnect before broadcasting
	time.Sleep(100 * time.Millisecond)

	brands := []models.Brand{{ID: "b1", Name: "Bosch"}}
	sendEvent(t, a, "update_brands", brands)

	var got []models.Brand
	require.NoError(t, json.Unmarshal(expectEvent(t, c, "brands_updated"), &got))
	assert.Equal(t, brands, got)
}

func TestMalformedPayloadRejectedToOriginOnly(t *testing.T) {
	st, url := newTestServer(t)

	a := dial(t, url)
	b := dial(t, url)
	expectEvent(t, a, models.EventInitialState)
	expectEvent(t, b, models.EventInitialState)

	sendEvent(t, a, "update_services", map[string]any{"definitely": "not a catalog"})

	data := expectEvent(t, a, models.EventError)
	var payload struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "PAYLOAD_INVALID", payload.Code)

	// Nothing was stored, nothing was broadcast
	expectSilence(t, b)
	assert.Empty(t, st.Get(models.SliceServices).([]models.Service))
}

func TestShutdownReleasesSessionPumps(t *testing.T) {
	st := state.New()
	h := New(st)
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	srv := httptest.NewServer(NewServer(h, nil).Router())
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	baseline := runtime.NumGoroutine()
	conns := make([]*websocket.Conn, 0, 3)
	for i := 0; i < 3; i++ {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		defer conn.Close()
		conns = append(conns, conn)
	}
	for _, conn := range conns {
		expectEvent(t, conn, models.EventInitialState)
	}

	cancel()

	// Every readPump and writePump must exit once the dispatcher is
	// gone; a pump stuck on the unregister handoff shows up as a
	// goroutine that never goes away.
	require.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= baseline
	}, 3*time.Second, 50*time.Millisecond)
}

func TestAddAppointmentRejectsUnknownFields(t *testing.T) {
	st, url := newTestServer(t)

	a := dial(t, url)
	b := dial(t, url)
	expectEvent(t, a, models.EventInitialState)
	expectEvent(t, b, models.EventInitialState)

	sendEvent(t, a, models.EventAddAppointment, map[string]any{
		"customerName":    "Dana",
		"favouriteColour": "red",
	})

	data := expectEvent(t, a, models.EventError)
	var payload struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "PAYLOAD_INVALID", payload.Code)

	expectSilence(t, b)
	assert.Empty(t, st.Get(models.SliceAppointments).([]models.Appointment))
}

func TestUnknownEventRejected(t *testing.T) {
	_, url := newTestServer(t)

	a := dial(t, url)
	expectEvent(t, a, models.EventInitialState)

	sendEvent(t, a, "update_gearboxes", []string{"manual"})

	data := expectEvent(t, a, models.EventError)
	var payload struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "UNKNOWN_EVENT", payload.Code)
}
