package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/membership-checkout/internal/checkout/core/domain/entity"
)

type fakeGateway struct {
	srv       *httptest.Server
	calls     atomic.Int32
	lastQuery atomic.Value
}

func newFakeGateway(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *fakeGateway {
	t.Helper()
	fg := &fakeGateway{}
	fg.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fg.calls.Add(1)
		fg.lastQuery.Store(r.URL.Query())
		handler(w, r)
	}))
	t.Cleanup(fg.srv.Close)
	return fg
}

func (fg *fakeGateway) query() url.Values {
	q, _ := fg.lastQuery.Load().(url.Values)
	return q
}

func (fg *fakeGateway) client(timeout time.Duration) *Client {
	return NewClient(Config{
		BaseURL:     fg.srv.URL + "/payment/rest/",
		Credentials: Credentials{UserName: "merchant", Password: "s3cret"},
		Timeout:     timeout,
	}, fg.srv.Client())
}

func replyJSON(status int, body string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func testOrder() *entity.Order {
	return &entity.Order{
		OrderNumber: "MB20261018000000001a1b2c3",
		Amount:      150000,
		Currency:    "012",
		Language:    "fr",
		ReturnURL:   "https://members.example/payments/return/success",
		FailURL:     "https://members.example/payments/return/fail",
		ExtraFields: map[string]string{"force_terminal_id": "E010900000", "udf1": "MB20261018000000001a1b2c3"},
	}
}

func TestClient_Register(t *testing.T) {
	tests := []struct {
		name    string
		handler func(w http.ResponseWriter, r *http.Request)
		timeout time.Duration

		wantErrIs   error
		wantSession *entity.GatewaySession
	}{
		{
			name:        "ok/formUrl returned unmodified",
			handler:     replyJSON(http.StatusOK, `{"orderId":"md-1","formUrl":"https://gw/test?x=1&y=2"}`),
			wantSession: &entity.GatewaySession{MdOrder: "md-1", FormURL: "https://gw/test?x=1&y=2"},
		},
		{
			name:        "ok/error code zero",
			handler:     replyJSON(http.StatusOK, `{"errorCode":"0","orderId":"md-2","formUrl":"https://gw/form"}`),
			wantSession: &entity.GatewaySession{MdOrder: "md-2", FormURL: "https://gw/form"},
		},
		{
			name:        "ok/mdOrder recovered from formUrl",
			handler:     replyJSON(http.StatusOK, `{"formUrl":"https://gw/main.html?mdOrder=md-3"}`),
			wantSession: &entity.GatewaySession{MdOrder: "md-3", FormURL: "https://gw/main.html?mdOrder=md-3"},
		},
		{
			name:        "ok/formUrl only",
			handler:     replyJSON(http.StatusOK, `{"formUrl":"https://gw/test"}`),
			wantSession: &entity.GatewaySession{FormURL: "https://gw/test"},
		},
		{
			name:      "rejection/error code with formUrl",
			handler:   replyJSON(http.StatusOK, `{"errorCode":"1","errorMessage":"Order number is duplicated","formUrl":"https://gw/test"}`),
			wantErrIs: entity.ErrGatewayRejection,
		},
		{
			name:      "rejection/numeric error code",
			handler:   replyJSON(http.StatusOK, `{"errorCode":5,"errorMessage":"Access denied"}`),
			wantErrIs: entity.ErrGatewayRejection,
		},
		{
			name:      "rejection/structured body on 400",
			handler:   replyJSON(http.StatusBadRequest, `{"errorCode":"3","errorMessage":"Unknown currency"}`),
			wantErrIs: entity.ErrGatewayRejection,
		},
		{
			name:      "transport/500 without body",
			handler:   replyJSON(http.StatusInternalServerError, `internal error`),
			wantErrIs: entity.ErrTransport,
		},
		{
			name:      "transport/502 with empty json",
			handler:   replyJSON(http.StatusBadGateway, `{}`),
			wantErrIs: entity.ErrTransport,
		},
		{
			name:      "transport/malformed json",
			handler:   replyJSON(http.StatusOK, `{"formUrl":`),
			wantErrIs: entity.ErrTransport,
		},
		{
			name:      "transport/no formUrl",
			handler:   replyJSON(http.StatusOK, `{"orderId":"md-9"}`),
			wantErrIs: entity.ErrTransport,
		},
		{
			name: "transport/timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			},
			timeout:   50 * time.Millisecond,
			wantErrIs: entity.ErrTransport,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fg := newFakeGateway(t, tt.handler)
			session, err := fg.client(tt.timeout).Register(context.Background(), testOrder())

			require.EqualValues(t, 1, fg.calls.Load(), "exactly one outbound call")
			if tt.wantErrIs != nil {
				require.ErrorIs(t, err, tt.wantErrIs)
				require.Nil(t, session)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantSession, session)
		})
	}
}

func TestClient_Register_RequestShape(t *testing.T) {
	fg := newFakeGateway(t, replyJSON(http.StatusOK, `{"orderId":"md-1","formUrl":"https://gw/test"}`))

	_, err := fg.client(0).Register(context.Background(), testOrder())
	require.NoError(t, err)

	q := fg.query()
	require.Equal(t, "merchant", q.Get("userName"))
	require.Equal(t, "s3cret", q.Get("password"))
	require.Equal(t, "MB20261018000000001a1b2c3", q.Get("orderNumber"))
	require.Equal(t, "150000", q.Get("amount"))
	require.Equal(t, "012", q.Get("currency"))
	require.Equal(t, "fr", q.Get("language"))
	require.Equal(t, "https://members.example/payments/return/success", q.Get("returnUrl"))
	require.Equal(t, "https://members.example/payments/return/fail", q.Get("failUrl"))

	var extra map[string]string
	require.NoError(t, json.Unmarshal([]byte(q.Get("jsonParams")), &extra))
	require.Equal(t, "E010900000", extra["force_terminal_id"])
	require.Equal(t, "MB20261018000000001a1b2c3", extra["udf1"])
}

func TestClient_Register_GatewayErrorCarriesMessage(t *testing.T) {
	fg := newFakeGateway(t, replyJSON(http.StatusOK, `{"errorCode":"1","errorMessage":"Order number is duplicated"}`))

	_, err := fg.client(0).Register(context.Background(), testOrder())

	var gwErr *entity.GatewayError
	require.ErrorAs(t, err, &gwErr)
	require.Equal(t, "1", gwErr.Code)
	require.Equal(t, "Order number is duplicated", gwErr.Message)
}

func TestClient_MissingCredentials(t *testing.T) {
	fg := newFakeGateway(t, replyJSON(http.StatusOK, `{}`))
	c := NewClient(Config{BaseURL: fg.srv.URL, Credentials: Credentials{UserName: "merchant"}}, fg.srv.Client())

	_, err := c.Register(context.Background(), testOrder())
	require.ErrorIs(t, err, entity.ErrConfiguration)

	_, err = c.Confirm(context.Background(), "md-1", "fr")
	require.ErrorIs(t, err, entity.ErrConfiguration)

	require.Zero(t, fg.calls.Load(), "no outbound call without credentials")
}

func TestClient_Confirm(t *testing.T) {
	tests := []struct {
		name    string
		handler func(w http.ResponseWriter, r *http.Request)

		wantErrIs error
		check     func(t *testing.T, o *entity.TransactionOutcome)
	}{
		{
			name:    "ok/success",
			handler: replyJSON(http.StatusOK, `{"errorCode":"0","approvalCode":"ABC123","amount":150000}`),
			check: func(t *testing.T, o *entity.TransactionOutcome) {
				require.True(t, o.Succeeded())
				require.Equal(t, "ABC123", o.ApprovalCode)
				require.NotNil(t, o.Amount)
				require.Equal(t, int64(150000), *o.Amount)
				require.Equal(t, "md-1", o.MdOrder)
				require.JSONEq(t, `{"errorCode":"0","approvalCode":"ABC123","amount":150000}`, string(o.Raw))
			},
		},
		{
			name: "ok/upper camel case payload",
			handler: replyJSON(http.StatusOK, `{"ErrorCode":"0","ErrorMessage":"Success","OrderStatus":2,`+
				`"OrderNumber":"MB1","Pan":"628058**7215","Amount":"150000","currency":"012","approvalCode":"XYZ",`+
				`"date":1792324800000,"actionCode":0,"params":{"respCode":"00","respCode_desc":"Votre paiement a été accepté"}}`),
			check: func(t *testing.T, o *entity.TransactionOutcome) {
				require.True(t, o.Succeeded())
				require.Equal(t, "MB1", o.OrderNumber)
				require.Equal(t, "628058**7215", o.Pan)
				require.Equal(t, int64(150000), *o.Amount)
				require.Equal(t, 2, *o.OrderStatus)
				require.Equal(t, "00", o.RespCode)
				require.Equal(t, "Votre paiement a été accepté", o.RespDescription)
				require.NotNil(t, o.Date)
				require.Equal(t, int64(1792324800000), o.Date.UnixMilli())
			},
		},
		{
			name:    "ok/declined payment is an outcome",
			handler: replyJSON(http.StatusOK, `{"ErrorCode":"2","ErrorMessage":"Payment is declined","OrderStatus":6,"OrderNumber":"MB2"}`),
			check: func(t *testing.T, o *entity.TransactionOutcome) {
				require.False(t, o.Succeeded())
				require.False(t, o.Pending())
				require.Equal(t, "2", o.ErrorCode)
			},
		},
		{
			name:    "ok/pending order",
			handler: replyJSON(http.StatusOK, `{"ErrorCode":"0","OrderStatus":0,"OrderNumber":"MB3"}`),
			check: func(t *testing.T, o *entity.TransactionOutcome) {
				require.True(t, o.Pending())
				require.False(t, o.Succeeded())
			},
		},
		{
			name:      "rejection/unknown order",
			handler:   replyJSON(http.StatusOK, `{"errorCode":"6","errorMessage":"Unregistered order Id"}`),
			wantErrIs: entity.ErrGatewayRejection,
		},
		{
			name:      "transport/html error page",
			handler:   replyJSON(http.StatusServiceUnavailable, `<html>down</html>`),
			wantErrIs: entity.ErrTransport,
		},
		{
			name:      "transport/empty object",
			handler:   replyJSON(http.StatusOK, `{}`),
			wantErrIs: entity.ErrTransport,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fg := newFakeGateway(t, tt.handler)
			o, err := fg.client(0).Confirm(context.Background(), "md-1", "fr")

			if tt.wantErrIs != nil {
				require.ErrorIs(t, err, tt.wantErrIs)
				require.Nil(t, o)
				return
			}
			require.NoError(t, err)
			q := fg.query()
			require.Equal(t, "md-1", q.Get("mdOrder"))
			require.Equal(t, "fr", q.Get("language"))
			tt.check(t, o)
		})
	}
}

func TestClient_Confirm_RequiresReference(t *testing.T) {
	fg := newFakeGateway(t, replyJSON(http.StatusOK, `{}`))

	_, err := fg.client(0).Confirm(context.Background(), "", "fr")
	require.ErrorIs(t, err, entity.ErrValidation)
	require.Zero(t, fg.calls.Load())
}

func TestClient_Confirm_Repeatable(t *testing.T) {
	fg := newFakeGateway(t, replyJSON(http.StatusOK, `{"errorCode":"0","approvalCode":"ABC123","amount":150000}`))
	c := fg.client(0)

	first, err := c.Confirm(context.Background(), "md-1", "fr")
	require.NoError(t, err)
	second, err := c.Confirm(context.Background(), "md-1", "fr")
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.EqualValues(t, 2, fg.calls.Load())
}

func TestClient_TransportErrorHidesCredentials(t *testing.T) {
	fg := newFakeGateway(t, replyJSON(http.StatusOK, `{}`))
	c := fg.client(time.Second)
	fg.srv.Close()

	_, err := c.Confirm(context.Background(), "md-1", "fr")
	require.ErrorIs(t, err, entity.ErrTransport)
	require.NotContains(t, err.Error(), "s3cret")
}
