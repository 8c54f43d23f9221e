package sntp

import "time"

// Exchange sends request and waits for a single reply. t1 is read right
// before the send and t4 right after the receive returns. Nothing is retried.
func Exchange(tr Transport, clock Clock, request []byte, timeout time.Duration) (response []byte, t1, t4 time.Time, err error) {
	t1 = clock.Now()
	if err = tr.Send(request, timeout); err != nil {
		return nil, t1, t4, &TransportError{Op: "send", Err: err}
	}

	response, err = tr.Receive(timeout)
	t4 = clock.Now()
	if err != nil {
		return nil, t1, t4, &TransportError{Op: "receive", Err: err}
	}
	return response, t1, t4, nil
}
