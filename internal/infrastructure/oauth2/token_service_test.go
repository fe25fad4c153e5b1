package oauth2

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"freee-deals/internal/config"
	"freee-deals/internal/domain/apperror"
	"freee-deals/internal/domain/entity"
	"freee-deals/internal/domain/repository"
	"freee-deals/internal/infrastructure/tokenfile"
)

const tokenPath = "/data/token.json"

type fakeTokenServer struct {
	*httptest.Server
	hits  atomic.Int32
	forms chan url.Values
}

// newFakeTokenServer answers every request with status and body
func newFakeTokenServer(t *testing.T, status int, body string) *fakeTokenServer {
	t.Helper()
	f := &fakeTokenServer{forms: make(chan url.Values, 8)}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		f.forms <- r.PostForm
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(f.Close)
	return f
}

func testConfig(tokenURL string) *config.Config {
	return &config.Config{
		Freee: config.FreeeConfig{
			Timeout: 5 * time.Second,
			OAuth2: config.OAuth2Credentials{
				ClientID:     "client-id",
				ClientSecret: "client-secret",
				RedirectURI:  config.DefaultRedirectURI,
				AuthURL:      config.DefaultAuthURL,
				TokenURL:     tokenURL,
				Prompt:       "select_company",
			},
		},
		OAuth: config.OAuthConfig{RefreshMarginSeconds: 300},
	}
}

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func newTestService(t *testing.T, tokenURL string, clk *clock) (*tokenService, repository.TokenRepository) {
	t.Helper()
	repo := tokenfile.NewFileRepository(afero.NewMemMapFs(), tokenPath, zap.NewNop())
	svc := NewTokenService(testConfig(tokenURL), repo, zaptest.NewLogger(t)).(*tokenService)
	svc.now = clk.Now
	return svc, repo
}

func seed(t *testing.T, repo repository.TokenRepository, record *entity.TokenRecord) {
	t.Helper()
	require.NoError(t, repo.Save(context.Background(), record))
}

func TestGetValidAccessToken_NoRecord(t *testing.T) {
	srv := newFakeTokenServer(t, http.StatusOK, `{}`)
	svc, _ := newTestService(t, srv.URL, &clock{time.Unix(1_700_000_000, 0)})

	_, err := svc.GetValidAccessToken(context.Background())
	require.Error(t, err)
	assert.True(t, apperror.IsAuth(err))
	assert.ErrorIs(t, err, apperror.ErrNoToken)
	assert.Zero(t, srv.hits.Load())
}

func TestGetValidAccessToken_StillValid(t *testing.T) {
	clk := &clock{time.Unix(1_700_000_000, 0)}
	srv := newFakeTokenServer(t, http.StatusOK, `{}`)
	svc, repo := newTestService(t, srv.URL, clk)
	seed(t, repo, &entity.TokenRecord{
		AccessToken:  "stored",
		RefreshToken: "R",
		ExpiresIn:    3600,
		ExpiresAt:    clk.t.Unix() + 301,
	})

	token, err := svc.GetValidAccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "stored", token)
	assert.Zero(t, srv.hits.Load())
}

func TestGetValidAccessToken_RefreshesWithinMargin(t *testing.T) {
	clk := &clock{time.Unix(1_700_000_000, 0)}
	srv := newFakeTokenServer(t, http.StatusOK,
		`{"access_token":"new","refresh_token":"R2","token_type":"bearer","expires_in":86400}`)
	svc, repo := newTestService(t, srv.URL, clk)
	seed(t, repo, &entity.TokenRecord{
		AccessToken:  "old",
		RefreshToken: "R1",
		ExpiresIn:    3600,
		ExpiresAt:    clk.t.Unix() + 299,
		CompanyID:    "1234",
		ExternalCID:  "ext-1",
	})

	token, err := svc.GetValidAccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new", token)
	assert.EqualValues(t, 1, srv.hits.Load())

	form := <-srv.forms
	assert.Equal(t, "refresh_token", form.Get("grant_type"))
	assert.Equal(t, "R1", form.Get("refresh_token"))
	assert.Equal(t, "client-id", form.Get("client_id"))
	assert.Equal(t, "client-secret", form.Get("client_secret"))

	stored, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new", stored.AccessToken)
	assert.Equal(t, "R2", stored.RefreshToken)
	assert.Equal(t, clk.t.Unix()+86400, stored.ExpiresAt)
	assert.Equal(t, entity.FlexID("1234"), stored.CompanyID)
	assert.Equal(t, "ext-1", stored.ExternalCID)
}

func TestGetValidAccessToken_ExpiredWithoutRefreshToken(t *testing.T) {
	clk := &clock{time.Unix(1_700_000_000, 0)}
	srv := newFakeTokenServer(t, http.StatusOK, `{}`)
	svc, repo := newTestService(t, srv.URL, clk)
	seed(t, repo, &entity.TokenRecord{AccessToken: "old", ExpiresAt: clk.t.Unix() - 10})

	_, err := svc.GetValidAccessToken(context.Background())
	require.Error(t, err)
	assert.True(t, apperror.IsAuth(err))
	assert.Zero(t, srv.hits.Load())
}

func TestGetValidAccessToken_RefreshRejected(t *testing.T) {
	clk := &clock{time.Unix(1_700_000_000, 0)}
	srv := newFakeTokenServer(t, http.StatusUnauthorized, `{"error":"invalid_grant"}`)
	svc, repo := newTestService(t, srv.URL, clk)
	seed(t, repo, &entity.TokenRecord{AccessToken: "old", RefreshToken: "R", ExpiresAt: clk.t.Unix()})

	_, err := svc.GetValidAccessToken(context.Background())
	require.Error(t, err)
	assert.True(t, apperror.IsAuth(err))

	he, ok := apperror.AsHTTP(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Status)
	assert.EqualValues(t, 1, srv.hits.Load())

	// the old record is left untouched
	stored, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "old", stored.AccessToken)
}

func TestGetValidAccessToken_MalformedRefreshBody(t *testing.T) {
	for name, body := range map[string]string{
		"not json":        `<html>bad gateway</html>`,
		"no access token": `{"token_type":"bearer","expires_in":3600}`,
	} {
		t.Run(name, func(t *testing.T) {
			clk := &clock{time.Unix(1_700_000_000, 0)}
			srv := newFakeTokenServer(t, http.StatusOK, body)
			svc, repo := newTestService(t, srv.URL, clk)
			seed(t, repo, &entity.TokenRecord{AccessToken: "old", RefreshToken: "R", ExpiresAt: clk.t.Unix()})

			_, err := svc.GetValidAccessToken(context.Background())
			require.Error(t, err)
			assert.True(t, apperror.IsAuth(err))

			var de *apperror.DecodeError
			assert.ErrorAs(t, err, &de)

			stored, err := repo.Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "old", stored.AccessToken)
		})
	}
}

func TestExchangeCode_SendsFormAndPersists(t *testing.T) {
	clk := &clock{time.Unix(1_700_000_000, 0)}
	srv := newFakeTokenServer(t, http.StatusOK,
		`{"access_token":"T1","refresh_token":"R1","expires_in":3600,"company_id":555,"expires_at":1}`)
	svc, repo := newTestService(t, srv.URL, clk)

	record, err := svc.ExchangeCode(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "T1", record.AccessToken)
	assert.Equal(t, clk.t.Unix()+3600, record.ExpiresAt)

	form := <-srv.forms
	assert.Equal(t, "authorization_code", form.Get("grant_type"))
	assert.Equal(t, "abc123", form.Get("code"))
	assert.Equal(t, config.DefaultRedirectURI, form.Get("redirect_uri"))

	stored, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.FlexID("555"), stored.CompanyID)
	assert.Equal(t, clk.t.Unix()+3600, stored.ExpiresAt)
}

func TestExchangeCode_Errors(t *testing.T) {
	t.Run("non-200 is an HTTPError", func(t *testing.T) {
		srv := newFakeTokenServer(t, http.StatusBadRequest, `{"error":"invalid_grant"}`)
		svc, repo := newTestService(t, srv.URL, &clock{time.Now()})

		_, err := svc.ExchangeCode(context.Background(), "bad")
		var he *apperror.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusBadRequest, he.Status)
		assert.Contains(t, he.Body, "invalid_grant")

		stored, err := repo.Load(context.Background())
		require.NoError(t, err)
		assert.Nil(t, stored)
	})

	t.Run("malformed body is a DecodeError", func(t *testing.T) {
		srv := newFakeTokenServer(t, http.StatusOK, `<html>oops</html>`)
		svc, _ := newTestService(t, srv.URL, &clock{time.Now()})

		_, err := svc.ExchangeCode(context.Background(), "abc")
		var de *apperror.DecodeError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "<html>oops</html>", de.Body)
	})

	t.Run("connection failure is a TransportError", func(t *testing.T) {
		srv := newFakeTokenServer(t, http.StatusOK, `{}`)
		srv.Close()
		svc, _ := newTestService(t, srv.URL, &clock{time.Now()})

		_, err := svc.ExchangeCode(context.Background(), "abc")
		var te *apperror.TransportError
		require.ErrorAs(t, err, &te)
	})

	t.Run("timeout is a TransportError", func(t *testing.T) {
		slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer slow.Close()
		svc, _ := newTestService(t, slow.URL, &clock{time.Now()})
		svc.client.Timeout = 20 * time.Millisecond

		_, err := svc.ExchangeCode(context.Background(), "abc")
		var te *apperror.TransportError
		require.ErrorAs(t, err, &te)
	})
}

func TestForceRefresh_IgnoresExpiry(t *testing.T) {
	clk := &clock{time.Unix(1_700_000_000, 0)}
	srv := newFakeTokenServer(t, http.StatusOK, `{"access_token":"forced","expires_in":3600}`)
	svc, repo := newTestService(t, srv.URL, clk)
	seed(t, repo, &entity.TokenRecord{AccessToken: "fine", RefreshToken: "R", ExpiresAt: clk.t.Unix() + 3000})

	token, err := svc.ForceRefresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "forced", token)

	stored, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "forced", stored.AccessToken)
	assert.Empty(t, stored.RefreshToken)
}

func TestBuildAuthorizationURL(t *testing.T) {
	svc, _ := newTestService(t, config.DefaultTokenURL, &clock{time.Now()})

	raw := svc.BuildAuthorizationURL("fixedstate")
	assert.Equal(t, raw, svc.BuildAuthorizationURL("fixedstate"))

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "accounts.secure.freee.co.jp", u.Host)
	assert.Equal(t, "/public_api/authorize", u.Path)

	q := u.Query()
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, config.DefaultRedirectURI, q.Get("redirect_uri"))
	assert.Equal(t, "fixedstate", q.Get("state"))
	assert.Equal(t, "select_company", q.Get("prompt"))

	generated, err := url.Parse(svc.BuildAuthorizationURL(""))
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-f]{32}$`, generated.Query().Get("state"))
}

func TestGenerateState_Unique(t *testing.T) {
	svc, _ := newTestService(t, config.DefaultTokenURL, &clock{time.Now()})

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		state, err := svc.GenerateState()
		require.NoError(t, err)
		assert.Len(t, state, 32)
		assert.False(t, seen[state])
		seen[state] = true
	}
}

func TestTokenLifecycle_EndToEnd(t *testing.T) {
	clk := &clock{time.Unix(1_700_000_000, 0)}
	responses := []string{
		`{"access_token":"T1","refresh_token":"R1","expires_in":3600,"company_id":"777"}`,
		`{"access_token":"T2","expires_in":3600}`,
	}
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		w.Write([]byte(responses[n-1]))
	}))
	defer srv.Close()

	svc, repo := newTestService(t, srv.URL, clk)
	ctx := context.Background()

	record, err := svc.ExchangeCode(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, clk.t.Unix()+3600, record.ExpiresAt)

	token, err := svc.GetValidAccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "T1", token)
	assert.EqualValues(t, 1, calls.Load())

	clk.t = clk.t.Add(3400 * time.Second)

	token, err = svc.GetValidAccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "T2", token)
	assert.EqualValues(t, 2, calls.Load())

	stored, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.FlexID("777"), stored.CompanyID)
	assert.Equal(t, "T2", stored.AccessToken)
	assert.Empty(t, stored.RefreshToken, "the record is replaced, only company_id and external_cid carry over")
	assert.Equal(t, clk.t.Unix()+3600, stored.ExpiresAt)

	// without a refresh token the next expiry needs re-authorization
	clk.t = clk.t.Add(3400 * time.Second)
	_, err = svc.GetValidAccessToken(ctx)
	assert.True(t, apperror.IsAuth(err))
	assert.EqualValues(t, 2, calls.Load())
}
