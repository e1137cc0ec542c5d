package store

import "strings"

// Path addresses a single record as "<collection>/<id>".
func Path(collection, id string) string {
	return collection + "/" + id
}

func SplitPath(p string) (collection, id string, err error) {
	collection, id, ok := strings.Cut(p, "/")
	if !ok || collection == "" || id == "" || strings.Contains(id, "/") {
		return "", "", ErrInvalidPath
	}
	return collection, id, nil
}
