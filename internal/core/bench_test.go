package core

import (
	"context"
	"fmt"
	"testing"
)

func benchmarkRoomFanout(b *testing.B, recipients int) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil, nil, nil, nil, nil)
	go hub.Run(ctx)

	sender := NewClient("sender", 0)
	hub.RegisterClient(sender)
	sender.Commands <- &Command{Kind: CommandJoin, Username: "sender"}

	clients := make([]*Client, 0, recipients)
	for i := 0; i < recipients; i++ {
		c := NewClient(fmt.Sprintf("c%d", i), 0)
		hub.RegisterClient(c)
		c.Commands <- &Command{Kind: CommandJoin, Username: "client"}
		clients = append(clients, c)
	}

	// Drain events for all but the first recipient to avoid channel backpressure.
	target := clients[0]
	for _, c := range clients[1:] {
		go func(cl *Client) {
			for range cl.Events {
			}
		}(c)
	}
	go func() {
		for range sender.Events {
		}
	}()

	// wait for the target's join to land before timing
	mustEventB(b, target)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		sender.Commands <- &Command{Kind: CommandSendMessage, Body: "payload"}
		for {
			ev := <-target.Events
			if ev.Kind == EventMessage {
				break
			}
		}
	}
}

func mustEventB(b *testing.B, c *Client) {
	for ev := range c.Events {
		if ev.Kind == EventSessionCreated {
			return
		}
	}
}

func BenchmarkRoomFanout_10(b *testing.B)  { benchmarkRoomFanout(b, 10) }
func BenchmarkRoomFanout_100(b *testing.B) { benchmarkRoomFanout(b, 100) }
func BenchmarkRoomFanout_500(b *testing.B) { benchmarkRoomFanout(b, 500) }
