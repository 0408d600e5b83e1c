package rest

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var avatarExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// avatarsHandler - lists the avatar basenames available under dir.
func avatarsHandler(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			http.Error(w, "Failed to load avatars", http.StatusInternalServerError)
			return
		}

		seen := make(map[string]bool)
		avatars := make([]string, 0, len(entries))
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}

			ext := strings.ToLower(filepath.Ext(entry.Name()))
			if !avatarExtensions[ext] {
				continue
			}

			name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
			if seen[name] {
				continue
			}
			seen[name] = true
			avatars = append(avatars, name)
		}

		sort.Strings(avatars)

		w.Header().Set("Content-Type", "application/json")
		if err = json.NewEncoder(w).Encode(map[string][]string{"avatars": avatars}); err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	}
}
