package hooks

import (
	"net/url"
	"strings"
	"testing"
)

func TestDecodeBv(t *testing.T) {
	testCases := []struct {
		name string
		bv   string
		want uint64
	}{
		{name: "reference video", bv: "BV1nY411r7o1", want: 267692137},
		{name: "short av id", bv: "BV17x411w7KC", want: 170001},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeBv(tc.bv)
			if err != nil {
				t.Fatalf("DecodeBv(%q) failed: %v", tc.bv, err)
			}
			if got != tc.want {
				t.Errorf("DecodeBv(%q) = %d, want %d", tc.bv, got, tc.want)
			}
		})
	}
}

func TestDecodeBv_Malformed(t *testing.T) {
	testCases := []struct {
		name string
		bv   string
	}{
		{name: "wrong prefix", bv: "AV1nY411r7o1"},
		{name: "too short", bv: "BV1nY411r7"},
		{name: "too long", bv: "BV1nY411r7o1x"},
		{name: "character outside alphabet", bv: "BV1nY411r7l0"},
		{name: "decodes out of range", bv: "BVffffffffff"},
		{name: "empty", bv: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeBv(tc.bv); err == nil {
				t.Errorf("DecodeBv(%q) should fail", tc.bv)
			}
		})
	}
}

func TestBvToAv(t *testing.T) {
	in, _ := url.Parse("https://www.bilibili.com/video/BV1nY411r7o1/?p=1")

	out, err := BvToAv(in)
	if err != nil {
		t.Fatalf("BvToAv failed: %v", err)
	}

	want := "https://www.bilibili.com/video/av267692137/?p=1"
	if out.String() != want {
		t.Errorf("BvToAv = %q, want %q", out.String(), want)
	}

	// The input URL stays untouched.
	if !strings.Contains(in.Path, "BV1nY411r7o1") {
		t.Error("input URL was mutated")
	}
}

func TestBvToAv_NoTrailingSlash(t *testing.T) {
	in, _ := url.Parse("https://www.bilibili.com/video/BV17x411w7KC")

	out, err := BvToAv(in)
	if err != nil {
		t.Fatalf("BvToAv failed: %v", err)
	}
	if out.Path != "/video/av170001/" {
		t.Errorf("expected path /video/av170001/, got %q", out.Path)
	}
}

func TestBvToAv_Rejections(t *testing.T) {
	testCases := []struct {
		name string
		url  string
	}{
		{name: "no host", url: "/video/BV1nY411r7o1"},
		{name: "path too short", url: "https://www.bilibili.com/BV1nY411r7o1"},
		{name: "not a video path", url: "https://www.bilibili.com/read/BV1nY411r7o1"},
		{name: "invalid identifier", url: "https://www.bilibili.com/video/plain"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u, err := url.Parse(tc.url)
			if err != nil {
				t.Fatalf("parse %q: %v", tc.url, err)
			}
			if _, err := BvToAv(u); err == nil {
				t.Errorf("BvToAv(%q) should fail", tc.url)
			}
		})
	}
}
