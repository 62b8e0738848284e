package service

// Notifier получает событие после каждого успешного сохранения
type Notifier interface {
	Publish(key, event string, payload any)
}

type nopNotifier struct{}

func (nopNotifier) Publish(string, string, any) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
