package handler

import (
	th "github.com/mymmrac/telego/telegohandler"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler) {
	bh.HandleMessage(h.OnStart, th.CommandEqual("start"))
	bh.HandleMessage(h.OnAdd, th.CommandEqual("add"))
	bh.HandleMessage(h.OnFilters, th.CommandEqual("filters"))
	bh.HandleMessage(h.OnPause, th.CommandEqual("pause"))
	bh.HandleMessage(h.OnResume, th.CommandEqual("resume"))
	bh.HandleMessage(h.OnDelete, th.CommandEqual("delete"))
	bh.HandleMessage(h.OnRecent, th.CommandEqual("recent"))
	bh.HandleMessage(h.OnStatus, th.CommandEqual("status"))
}
