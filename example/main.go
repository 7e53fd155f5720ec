// Command example shows the store driving a terminal "view".
//
// The view subscribes on start, re-renders the whole list on every
// notification and unsubscribes when done. A timer plays the role of a
// deferred caller and clears the list a few seconds later.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jpalmerr/userboard"
)

// listView renders whatever list it is handed and keeps no state of its own.
type listView struct {
	out *os.File
}

func (v listView) OnStateChange(users []userboard.UserRecord) {
	var b strings.Builder
	fmt.Fprintf(&b, "── %d users ──\n", len(users))
	for _, u := range users {
		fmt.Fprintf(&b, "  %-10s %s\n", u.Username, u.Email)
	}
	fmt.Fprint(v.out, b.String())
}

func main() {
	st, err := userboard.New(
		userboard.WithSeed(userboard.UserRecord{Username: "example1", Email: "example1@yopmail.com"}),
		userboard.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))),
	)
	if err != nil {
		slog.Error("failed to create store", "error", err)
		os.Exit(1)
	}

	view := listView{out: os.Stdout}
	view.OnStateChange(st.GetState())

	id := st.Subscribe(view)
	defer st.Unsubscribe(id)

	st.Dispatch(userboard.AddUser{Record: userboard.UserRecord{Username: "joe", Email: "joe@yopmail.com"}})
	st.Dispatch(userboard.AddUser{Record: userboard.UserRecord{Username: "jose", Email: "jose@yopmail.com"}})

	done := make(chan struct{})
	time.AfterFunc(3*time.Second, func() {
		st.Dispatch(userboard.RemoveAllUsers{})
		close(done)
	})
	<-done
}
