package cleaner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	linkerrors "clearlink/internal/links/errors"
	"clearlink/internal/links/hooks"
	"clearlink/internal/links/rules"
	"clearlink/pkg/logger"
)

// stubResolver returns a canned destination without touching the network.
type stubResolver struct {
	resolveFunc func(ctx context.Context, rawURL string) (*url.URL, error)
}

func (s *stubResolver) Resolve(ctx context.Context, rawURL string) (*url.URL, error) {
	return s.resolveFunc(ctx, rawURL)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard})
}

func testStore(t *testing.T, cfg map[string]rules.DomainConfig) *rules.Store {
	t.Helper()
	store, err := rules.Build(cfg)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return store
}

func TestClear_StripsDeniedKeys(t *testing.T) {
	store := testStore(t, map[string]rules.DomainConfig{
		"twitter.com": {Deny: []string{"^s$", "^t$"}},
	})
	c := New(store, hooks.NewEmptyRegistry(), nil, testLogger())

	got, err := c.Clear(context.Background(), "https://twitter.com/CiloRanko/status/1478401918792011776?s=20&t=AVPOmNLtaozrA0Ccp6DyAw")
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	want := "https://twitter.com/CiloRanko/status/1478401918792011776"
	if got.String() != want {
		t.Errorf("Clear = %q, want %q", got.String(), want)
	}
}

func TestClear_KeepsSurvivingPairsVerbatim(t *testing.T) {
	store := testStore(t, map[string]rules.DomainConfig{
		"example.com": {Deny: []string{"utm_.+"}},
	})
	c := New(store, hooks.NewEmptyRegistry(), nil, testLogger())

	// The surviving pair keeps its original escaping and the bare key keeps
	// its missing "=".
	got, err := c.Clear(context.Background(), "https://example.com/p?q=a%20b&utm_source=x&flag")
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if got.RawQuery != "q=a%20b&flag" {
		t.Errorf("RawQuery = %q, want %q", got.RawQuery, "q=a%20b&flag")
	}
}

func TestClear_EscapedKeyMatches(t *testing.T) {
	store := testStore(t, map[string]rules.DomainConfig{
		"example.com": {Deny: []string{"utm_source"}},
	})
	c := New(store, hooks.NewEmptyRegistry(), nil, testLogger())

	// %75 is "u"; the key decodes to utm_source and must still be stripped.
	got, err := c.Clear(context.Background(), "https://example.com/p?%75tm_source=x&keep=1")
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if got.RawQuery != "keep=1" {
		t.Errorf("RawQuery = %q, want %q", got.RawQuery, "keep=1")
	}
}

func TestClear_BenignFailures(t *testing.T) {
	store := testStore(t, map[string]rules.DomainConfig{
		"noquery.example": {Deny: []string{"x"}},
		"nodeny.example":  {},
		"clean.example":   {Deny: []string{"utm_.+"}},
	})
	c := New(store, hooks.NewEmptyRegistry(), nil, testLogger())

	testCases := []struct {
		name     string
		url      string
		wantCode string
	}{
		{name: "no query", url: "https://noquery.example/page", wantCode: linkerrors.CodeNoQuery},
		{name: "empty denylist", url: "https://nodeny.example/page?a=1", wantCode: linkerrors.CodeNoMatchRule},
		{name: "already clean", url: "https://clean.example/page?a=1&b=2", wantCode: linkerrors.CodeNothingToClean},
		{name: "unknown domain no default", url: "https://unknown.example/page?a=1", wantCode: linkerrors.CodeNoMatchRule},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Clear(context.Background(), tc.url)
			if err == nil {
				t.Fatal("expected an error")
			}
			if code := linkerrors.CodeOf(err); code != tc.wantCode {
				t.Errorf("code = %q, want %q", code, tc.wantCode)
			}
			if !linkerrors.IsBenign(err) {
				t.Errorf("expected %q to be benign", tc.wantCode)
			}
		})
	}
}

func TestClear_HardFailures(t *testing.T) {
	store := testStore(t, map[string]rules.DomainConfig{
		"example.com": {Deny: []string{"x"}},
	})
	c := New(store, hooks.NewEmptyRegistry(), nil, testLogger())

	testCases := []struct {
		name     string
		url      string
		wantCode string
	}{
		{name: "unparseable", url: "https://example.com/%zz", wantCode: linkerrors.CodeURLParse},
		{name: "no domain", url: "/relative/path?a=1", wantCode: linkerrors.CodeNoDomain},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Clear(context.Background(), tc.url)
			if err == nil {
				t.Fatal("expected an error")
			}
			if code := linkerrors.CodeOf(err); code != tc.wantCode {
				t.Errorf("code = %q, want %q", code, tc.wantCode)
			}
			if linkerrors.IsBenign(err) {
				t.Errorf("%q must not be benign", tc.wantCode)
			}
		})
	}
}

func TestClear_DefaultFallback(t *testing.T) {
	store := testStore(t, map[string]rules.DomainConfig{
		rules.DefaultKey: {Deny: []string{"utm_.+"}},
	})
	c := New(store, hooks.NewEmptyRegistry(), nil, testLogger())

	got, err := c.Clear(context.Background(), "https://anything.example/page?utm_source=mail&id=7")
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if got.RawQuery != "id=7" {
		t.Errorf("RawQuery = %q, want %q", got.RawQuery, "id=7")
	}
}

func TestClear_RedirectUsesDestinationRule(t *testing.T) {
	store := testStore(t, map[string]rules.DomainConfig{
		"short.example": {Redirect: true},
		"long.example":  {Deny: []string{"^from$"}},
	})
	resolver := &stubResolver{resolveFunc: func(_ context.Context, rawURL string) (*url.URL, error) {
		if rawURL != "https://short.example/abc" {
			return nil, fmt.Errorf("unexpected resolve of %q", rawURL)
		}
		return url.Parse("https://long.example/page?from=share&id=9")
	}}
	c := New(store, hooks.NewEmptyRegistry(), resolver, testLogger())

	got, err := c.Clear(context.Background(), "https://short.example/abc")
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	want := "https://long.example/page?id=9"
	if got.String() != want {
		t.Errorf("Clear = %q, want %q", got.String(), want)
	}
}

func TestClear_RedirectDestinationWithoutRule(t *testing.T) {
	store := testStore(t, map[string]rules.DomainConfig{
		"short.example": {Redirect: true},
	})
	resolver := &stubResolver{resolveFunc: func(context.Context, string) (*url.URL, error) {
		return url.Parse("https://nowhere.example/page?a=1")
	}}
	c := New(store, hooks.NewEmptyRegistry(), resolver, testLogger())

	_, err := c.Clear(context.Background(), "https://short.example/abc")
	if code := linkerrors.CodeOf(err); code != linkerrors.CodeNoMatchRule {
		t.Errorf("code = %q, want %q", code, linkerrors.CodeNoMatchRule)
	}
}

func TestClear_RedirectFailure(t *testing.T) {
	store := testStore(t, map[string]rules.DomainConfig{
		"short.example": {Redirect: true},
	})
	resolver := &stubResolver{resolveFunc: func(context.Context, string) (*url.URL, error) {
		return nil, errors.New("connection refused")
	}}
	c := New(store, hooks.NewEmptyRegistry(), resolver, testLogger())

	_, err := c.Clear(context.Background(), "https://short.example/abc")
	if code := linkerrors.CodeOf(err); code != linkerrors.CodeRedirectFail {
		t.Errorf("code = %q, want %q", code, linkerrors.CodeRedirectFail)
	}
}

func TestClear_RedirectWithoutResolver(t *testing.T) {
	store := testStore(t, map[string]rules.DomainConfig{
		"short.example": {Redirect: true},
	})
	c := New(store, hooks.NewEmptyRegistry(), nil, testLogger())

	_, err := c.Clear(context.Background(), "https://short.example/abc")
	if code := linkerrors.CodeOf(err); code != linkerrors.CodeRedirectFail {
		t.Errorf("code = %q, want %q", code, linkerrors.CodeRedirectFail)
	}
	if !errors.Is(err, ErrNoResolver) {
		t.Error("expected the error to wrap ErrNoResolver")
	}
}

func TestClear_HooksRunAfterFilter(t *testing.T) {
	store := testStore(t, map[string]rules.DomainConfig{
		"bilibili.com": {
			Subdomains: []string{"www"},
			Deny:       []string{"spm_id_from"},
			Hooks:      []string{hooks.NameBvToAv},
		},
	})
	c := New(store, hooks.NewRegistry(), nil, testLogger())

	got, err := c.Clear(context.Background(), "https://www.bilibili.com/video/BV1nY411r7o1/?p=1&spm_id_from=333.999")
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	want := "https://www.bilibili.com/video/av267692137/?p=1"
	if got.String() != want {
		t.Errorf("Clear = %q, want %q", got.String(), want)
	}
}

// Hooks still run when the query gates would otherwise stop the pipeline.
func TestClear_HooksSoftenQueryGates(t *testing.T) {
	store := testStore(t, map[string]rules.DomainConfig{
		"bilibili.com": {
			Deny:  []string{"spm_id_from"},
			Hooks: []string{hooks.NameBvToAv},
		},
	})
	c := New(store, hooks.NewRegistry(), nil, testLogger())

	testCases := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "no query",
			url:  "https://bilibili.com/video/BV1nY411r7o1",
			want: "https://bilibili.com/video/av267692137/",
		},
		{
			name: "query already clean",
			url:  "https://bilibili.com/video/BV1nY411r7o1/?p=1",
			want: "https://bilibili.com/video/av267692137/?p=1",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := c.Clear(context.Background(), tc.url)
			if err != nil {
				t.Fatalf("Clear failed: %v", err)
			}
			if got.String() != tc.want {
				t.Errorf("Clear = %q, want %q", got.String(), tc.want)
			}
		})
	}
}

func TestClear_HookChainOrderAndShortCircuit(t *testing.T) {
	registry := hooks.NewEmptyRegistry()
	var order []string
	_ = registry.Register("first", func(u *url.URL) (*url.URL, error) {
		order = append(order, "first")
		out := *u
		out.Path = "/rewritten"
		return &out, nil
	})
	_ = registry.Register("second", func(u *url.URL) (*url.URL, error) {
		order = append(order, "second")
		if u.Path != "/rewritten" {
			return nil, fmt.Errorf("expected output of first hook, got %q", u.Path)
		}
		return nil, errors.New("boom")
	})
	_ = registry.Register("third", func(u *url.URL) (*url.URL, error) {
		order = append(order, "third")
		return u, nil
	})

	store := testStore(t, map[string]rules.DomainConfig{
		"example.com": {Deny: []string{"utm_.+"}, Hooks: []string{"first", "second", "third"}},
	})
	c := New(store, registry, nil, testLogger())

	_, err := c.Clear(context.Background(), "https://example.com/p?utm_source=x&id=1")
	if code := linkerrors.CodeOf(err); code != linkerrors.CodeHookFailed {
		t.Fatalf("code = %q, want %q", code, linkerrors.CodeHookFailed)
	}

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("hook order = %v, want [first second]", order)
	}
}

func TestClear_UnknownHook(t *testing.T) {
	store := testStore(t, map[string]rules.DomainConfig{
		"example.com": {Deny: []string{"utm_.+"}, Hooks: []string{"missing"}},
	})
	c := New(store, hooks.NewEmptyRegistry(), nil, testLogger())

	_, err := c.Clear(context.Background(), "https://example.com/p?utm_source=x&id=1")
	if code := linkerrors.CodeOf(err); code != linkerrors.CodeHookFailed {
		t.Fatalf("code = %q, want %q", code, linkerrors.CodeHookFailed)
	}

	var cleanErr *linkerrors.CleanError
	if !errors.As(err, &cleanErr) {
		t.Fatal("expected a *CleanError")
	}
	if cleanErr.Hook != "missing" {
		t.Errorf("Hook = %q, want %q", cleanErr.Hook, "missing")
	}
}

func TestHTTPResolver_FollowsRedirects(t *testing.T) {
	var dest *httptest.Server
	dest = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer dest.Close()

	short := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, dest.URL+"/final?p=1", http.StatusFound)
	}))
	defer short.Close()

	resolver := NewHTTPResolverWithClient(short.Client())

	final, err := resolver.Resolve(context.Background(), short.URL+"/abc")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if final.String() != dest.URL+"/final?p=1" {
		t.Errorf("final = %q, want %q", final.String(), dest.URL+"/final?p=1")
	}
}

func TestHTTPResolver_FallsBackToGET(t *testing.T) {
	var sawGet bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		sawGet = true
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	resolver := NewHTTPResolverWithClient(srv.Client())

	if _, err := resolver.Resolve(context.Background(), srv.URL); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !sawGet {
		t.Error("expected a GET fallback after HEAD was rejected")
	}
}

func TestHTTPResolver_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	resolver := NewHTTPResolverWithClient(srv.Client())

	if _, err := resolver.Resolve(context.Background(), srv.URL); err == nil {
		t.Fatal("expected an error for a 404 destination")
	}
}
