package hub

import (
	"sync"

	"go.uber.org/zap"
)

type LocalPubSub struct {
	sugar   *zap.SugaredLogger
	mutex   sync.RWMutex
	hashMap map[string][]*Subscription
}

func newLocalPubSub(sugar *zap.SugaredLogger) *LocalPubSub {
	return &LocalPubSub{
		sugar:   sugar,
		hashMap: make(map[string][]*Subscription),
	}
}

func (ps *LocalPubSub) Subscribe(sub *Subscription) {
	ps.mutex.Lock()
	defer ps.mutex.Unlock()

	for _, topic := range sub.topics {
		ps.hashMap[topic] = append(ps.hashMap[topic], sub)
	}
}

// Unsubscribe removes sub from all its topics and closes its events.
func (ps *LocalPubSub) Unsubscribe(sub *Subscription) {
	ps.mutex.Lock()
	defer ps.mutex.Unlock()

	for _, topic := range sub.topics {
		subs := ps.hashMap[topic]

		// this won't run in case topic doesn't exist since length will be 0
		for i := range subs {
			if subs[i] == sub {
				subs[i] = subs[len(subs)-1]
				ps.hashMap[topic] = subs[:len(subs)-1]
				break
			}
		}

		// delete topic from map if nobody listens to it
		if len(ps.hashMap[topic]) == 0 {
			delete(ps.hashMap, topic)
		}
	}

	close(sub.events)
}

func (ps *LocalPubSub) Publish(topic string, message string) {
	ps.mutex.RLock()
	defer ps.mutex.RUnlock()

	subs := ps.hashMap[topic]
	if len(subs) == 0 {
		return
	}

	event, err := decode(topic, message)
	if err != nil {
		ps.sugar.Error(err)
		return
	}

	for _, sub := range subs {
		sub.offer(ps.sugar, event)
	}
}

func (ps *LocalPubSub) listeners(topic string) int {
	ps.mutex.RLock()
	defer ps.mutex.RUnlock()

	return len(ps.hashMap[topic])
}
