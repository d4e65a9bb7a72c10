package hooks

import (
	"fmt"
	"net/url"
	"strings"
)

// NameBvToAv is the registry name of the BV→av identifier recoding hook.
const NameBvToAv = "bv_to_av"

// The BV identifier is a base-58 obfuscation of the numeric av id. Six
// characters are picked from fixed positions, translated through the
// alphabet below, combined positionally, then de-obfuscated with the two
// constants. The values must match the reference scheme exactly or decoded
// ids will be wrong for every video.
const bvAlphabet = "fZodR9XQDSUm21yCkr6zBqiveYah8bt4xsWpHnJE7jL5VG3guMTKNPAwcF"

var bvSelect = [6]int{11, 10, 3, 8, 4, 6}

const (
	bvXor = uint64(177451812)
	bvAdd = uint64(8728348608)
)

const (
	bvPrefix = "BV"
	bvLength = 12
)

var bvTranslate = func() map[byte]uint64 {
	t := make(map[byte]uint64, len(bvAlphabet))
	for i := 0; i < len(bvAlphabet); i++ {
		t[bvAlphabet[i]] = uint64(i)
	}
	return t
}()

// BvToAv rewrites /video/BV… paths to their canonical /video/av{id}/ form.
// The query string and fragment pass through untouched. Malformed input is
// an expected condition and comes back as an error, never a panic.
func BvToAv(u *url.URL) (*url.URL, error) {
	if u.Hostname() == "" {
		return nil, fmt.Errorf("url has no host")
	}

	segments := pathSegments(u)
	if len(segments) < 2 {
		return nil, fmt.Errorf("not a video URL: path %q is too short", u.Path)
	}
	if segments[0] != "video" {
		return nil, fmt.Errorf("not a video URL: first path segment is %q", segments[0])
	}

	id, err := DecodeBv(segments[1])
	if err != nil {
		return nil, err
	}

	out := *u
	out.Path = fmt.Sprintf("/%s/av%d/", segments[0], id)
	out.RawPath = ""
	return &out, nil
}

// DecodeBv decodes a 12-character BV identifier into its numeric av id.
func DecodeBv(segment string) (uint64, error) {
	if !strings.HasPrefix(segment, bvPrefix) {
		return 0, fmt.Errorf("identifier %q does not start with %s", segment, bvPrefix)
	}
	if len(segment) != bvLength {
		return 0, fmt.Errorf("identifier %q must be %d characters, got %d", segment, bvLength, len(segment))
	}

	var sum uint64
	pow := uint64(1)
	for i, pos := range bvSelect {
		c := segment[pos]
		v, ok := bvTranslate[c]
		if !ok {
			return 0, fmt.Errorf("identifier %q has character %q outside the alphabet", segment, string(c))
		}
		sum += v * pow
		if i < len(bvSelect)-1 {
			pow *= 58
		}
	}

	if sum < bvAdd {
		return 0, fmt.Errorf("identifier %q decodes out of range", segment)
	}
	return (sum - bvAdd) ^ bvXor, nil
}

// pathSegments splits the URL path into segments, dropping the empty leading
// segment but keeping interior structure.
func pathSegments(u *url.URL) []string {
	p := strings.TrimPrefix(u.EscapedPath(), "/")
	if p == "" {
		return nil
	}
	segments := strings.Split(p, "/")
	// A trailing slash yields a final empty segment; it carries no information.
	if segments[len(segments)-1] == "" {
		segments = segments[:len(segments)-1]
	}
	return segments
}
