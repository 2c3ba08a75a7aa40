// Package group provides keyed collections of exactly-once cells.
//
// A Group maps comparable keys to independent onecell.Cell values. Each
// key's cell carries the full first-writer-wins contract on its own;
// the group only guarantees that concurrent accesses to the same key
// resolve to the same cell.
//
// Groups suit per-resource lazy initialization, such as one connection
// pool per database:
//
//	pools := group.New[string, *Pool]()
//
//	pool, created := pools.GetOrInit("users_db", func() *Pool {
//	    return NewPool("users_db")
//	})
//
// The factory runs at most once per key, even under concurrent access.
package group
