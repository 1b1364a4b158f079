package nats

import "fmt"

// Connect opens the publisher and subscriber connections to url. Either
// both are connected on return or both are closed and an error is returned.
func Connect(url string) (*Publisher, *Subscriber, error) {
	pub, err := NewPublisher(url)
	if err != nil {
		return nil, nil, err
	}
	sub, err := NewSubscriber(url)
	if err != nil {
		pub.Close()
		return nil, nil, err
	}

	if !pub.Connected() || !sub.Connected() {
		pub.Close()
		sub.Close()
		return nil, nil, fmt.Errorf("NATS at %s is not reachable", url)
	}
	return pub, sub, nil
}

// Connected reports whether the publisher currently has a live connection.
func (p *Publisher) Connected() bool {
	return p != nil && p.nc != nil && p.nc.IsConnected()
}

// Connected reports whether the subscriber currently has a live connection.
func (s *Subscriber) Connected() bool {
	return s != nil && s.nc != nil && s.nc.IsConnected()
}
