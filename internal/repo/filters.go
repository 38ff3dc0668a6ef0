package repo

import "go.mongodb.org/mongo-driver/bson"

type filter struct {
	match bson.M
	fn    func(any) bool
}

type Filter func(*filter)

func ByField[T any](field string, value T) Filter {
	return func(f *filter) {
		if f.match == nil {
			f.match = bson.M{}
		}
		f.match[field] = value
	}
}

func Where[T any](filterFunc func(T) bool) Filter {
	check := func(x any) bool {
		t, ok := x.(T)
		return ok && filterFunc(t)
	}
	return func(f *filter) {
		f.fn = check
	}
}
