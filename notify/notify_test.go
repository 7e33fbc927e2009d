package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/notify"
	"github.com/warp/payroll-engine/payroll/store"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "07701234567", want: "9647701234567"},
		{in: "+964 770 123 4567", want: "9647701234567"},
		{in: "7701234567", want: "9647701234567"},
		{in: "(0770) 123-4567", want: "9647701234567"},
		{in: "964770123456", wantErr: true},
		{in: "12345", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := notify.NormalizePhone(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, notify.ErrInvalidPhone))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWhatsApp_SendsTemplate(t *testing.T) {
	// GIVEN: A fake Cloud API endpoint
	var got map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	wa := notify.NewWhatsApp(srv.URL, "secret", "")

	// WHEN: Sending a salary notification
	err := wa.Notify(context.Background(), notify.Notification{
		UserID: "emp-1",
		Phone:  "0770 123 4567",
		Params: []string{"Sara", "1700.00 IQD", "2024-05"},
	})

	// THEN: The template message reaches the API
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, "whatsapp", got["messaging_product"])
	assert.Equal(t, "9647701234567", got["to"])

	tmpl := got["template"].(map[string]any)
	assert.Equal(t, "confirmation2", tmpl["name"])
	assert.Equal(t, "ar", tmpl["language"].(map[string]any)["code"])
	params := tmpl["components"].([]any)[0].(map[string]any)["parameters"].([]any)
	require.Len(t, params, 3)
	assert.Equal(t, "1700.00 IQD", params[1].(map[string]any)["text"])
}

func TestWhatsApp_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"template not approved"}}`))
	}))
	defer srv.Close()

	err := notify.NewWhatsApp(srv.URL, "secret", "salary").Notify(context.Background(),
		notify.Notification{Phone: "07701234567", Message: "hi"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "template not approved")
}

func TestWhatsApp_SkipsWithoutPhone(t *testing.T) {
	wa := notify.NewWhatsApp("http://127.0.0.1:1", "secret", "")

	assert.NoError(t, wa.Notify(context.Background(), notify.Notification{UserID: "emp-1"}))
}

func TestInApp_AssignsIDAndDate(t *testing.T) {
	m := store.NewMemory()
	inApp := notify.NewInApp(m)
	inApp.Now = func() time.Time { return time.Date(2024, 5, 31, 8, 0, 0, 0, time.UTC) }

	require.NoError(t, inApp.Notify(context.Background(), notify.Notification{
		UserID:     "emp-1",
		Title:      "Salary paid",
		ActionType: notify.ActionPayment,
		ActionID:   "pay-1",
	}))

	items, err := m.ListNotifications(context.Background(), "emp-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.NotEmpty(t, items[0].ID)
	assert.Equal(t, 2024, items[0].Date.Year())
}

func TestMulti_JoinsErrors(t *testing.T) {
	m := store.NewMemory()
	boom := dispatcherFunc(func(context.Context, notify.Notification) error { return errors.New("boom") })

	err := notify.Multi{notify.NewInApp(m), boom, nil}.Notify(context.Background(),
		notify.Notification{UserID: "emp-1", ActionType: notify.ActionPayday, ActionID: "x"})

	require.Error(t, err)
	// The in-app copy is still stored.
	has, herr := m.HasNotification(context.Background(), "emp-1", notify.ActionPayday, "x")
	require.NoError(t, herr)
	assert.True(t, has)
}

type dispatcherFunc func(context.Context, notify.Notification) error

func (f dispatcherFunc) Notify(ctx context.Context, n notify.Notification) error { return f(ctx, n) }
