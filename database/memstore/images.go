package memstore

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// ImageStore keeps uploaded images in memory and serves them under BaseURL.
type ImageStore struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string]Object
}

type Object struct {
	ContentType string
	Body        []byte
}

func NewImageStore(baseURL string) *ImageStore {
	return &ImageStore{
		BaseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string]Object),
	}
}

func (s *ImageStore) Put(_ context.Context, key, contentType string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = Object{ContentType: contentType, Body: slices.Clone(body)}
	return nil
}

func (s *ImageStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *ImageStore) PublicURL(key string) string {
	return s.BaseURL + "/" + key
}

func (s *ImageStore) KeyFromURL(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, s.BaseURL+"/")
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

// Object returns a stored object.
func (s *ImageStore) Object(key string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.objects[key]
	return o, ok
}
