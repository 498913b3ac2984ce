// Package session 提供宿主"实时会话"进入/退出通知的事件源。文档在构造时订阅一次，
// 关闭时退订一次；会话结束后文档会在下次取值前恢复默认值，避免会话内的修改被当作
// 作者默认值保存。
package session

import (
	"sort"
	"sync"
)

// Listener 接收会话通知。
type Listener interface {
	OnEnteringLiveSession()
	OnExitingLiveSession()
}

// Source 是文档可订阅的事件源。
type Source interface {
	Subscribe(l Listener) int
	Unsubscribe(id int)
}

// Hub 按订阅顺序分发通知。
type Hub struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]Listener
	active    bool
}

// NewHub 创建空的事件源。
func NewHub() *Hub {
	return &Hub{listeners: make(map[int]Listener)}
}

// Subscribe 注册监听者并返回订阅 ID。
func (h *Hub) Subscribe(l Listener) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.listeners == nil {
		h.listeners = make(map[int]Listener)
	}
	h.nextID++
	h.listeners[h.nextID] = l
	return h.nextID
}

// Unsubscribe 移除订阅，未知 ID 被忽略。
func (h *Hub) Unsubscribe(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.listeners, id)
}

// Len 返回当前订阅数。
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners)
}

// Active 报告是否处于实时会话中。
func (h *Hub) Active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

// Enter 进入实时会话；已在会话中时不重复通知。
func (h *Hub) Enter() {
	listeners, ok := h.transition(true)
	if !ok {
		return
	}
	for _, l := range listeners {
		l.OnEnteringLiveSession()
	}
}

// Exit 退出实时会话；不在会话中时不通知。
func (h *Hub) Exit() {
	listeners, ok := h.transition(false)
	if !ok {
		return
	}
	for _, l := range listeners {
		l.OnExitingLiveSession()
	}
}

// transition 在锁内切换状态并拷贝监听者，通知在锁外进行，允许监听者在回调里退订。
func (h *Hub) transition(active bool) ([]Listener, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.active == active {
		return nil, false
	}
	h.active = active

	ids := make([]int, 0, len(h.listeners))
	for id := range h.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]Listener, 0, len(ids))
	for _, id := range ids {
		out = append(out, h.listeners[id])
	}
	return out, true
}
