package handlers

import (
	"chatapp-client/internal/models"
	"chatapp-client/internal/viewmodel"
	"fmt"

	"github.com/valyala/fastjson"
)

const (
	ScreenHome           = "home"
	ScreenChat           = "chat"
	ScreenDirectMessages = "direct_messages"
	ScreenProfile        = "profile"
	ScreenSettings       = "settings"
	ScreenVoice          = "voice"
	ScreenMembers        = "members"
)

// open creates the state holder of a screen from the "args" of an open frame.
func (ss *session) open(name string, args *fastjson.Value) error {
	s := ss.server
	userID := ss.user.ID

	switch name {
	case ScreenHome:
		vm := viewmodel.NewHome(ss.ctx, s.sugar, s.uc, userID)
		attach(ss, name, vm.Holder, vm.Close, homeIntents(vm))

	case ScreenChat:
		var target models.MessageTarget
		var err error
		if target.ServerID, err = id(args, "serverID"); err != nil {
			return err
		}
		if target.ChannelID, err = id(args, "channelID"); err != nil {
			return err
		}
		if target.ConversationID, err = id(args, "conversationID"); err != nil {
			return err
		}
		vm := viewmodel.NewChat(ss.ctx, s.sugar, s.uc, userID, target)
		attach(ss, name, vm.Holder, vm.Close, chatIntents(vm))

	case ScreenDirectMessages:
		vm := viewmodel.NewDirectMessages(ss.ctx, s.sugar, s.uc, userID)
		attach(ss, name, vm.Holder, vm.Close, map[string]intent{
			"search": func(args *fastjson.Value) error {
				vm.Search(text(args, "query"))
				return nil
			},
			"open": func(args *fastjson.Value) error {
				otherID, err := id(args, "userID")
				if err != nil {
					return err
				}
				vm.Open(otherID)
				return nil
			},
		})

	case ScreenProfile:
		shownID, err := id(args, "userID")
		if err != nil {
			return err
		}
		if shownID == 0 {
			shownID = userID
		}
		vm := viewmodel.NewProfile(ss.ctx, s.sugar, s.uc, userID, shownID)
		attach(ss, name, vm.Holder, vm.Close, map[string]intent{
			"updateProfile": func(args *fastjson.Value) error {
				vm.UpdateProfile(text(args, "displayName"), text(args, "bio"))
				return nil
			},
			"updateStatus": func(args *fastjson.Value) error {
				vm.UpdateStatus(text(args, "status"))
				return nil
			},
			"sendMessage": func(*fastjson.Value) error {
				vm.SendMessage()
				return nil
			},
		})

	case ScreenSettings:
		vm := viewmodel.NewSettings(ss.ctx, s.sugar, s.uc, userID)
		attach(ss, name, vm.Holder, vm.Close, map[string]intent{
			"update": func(args *fastjson.Value) error {
				vm.Update(models.UserSettings{
					Theme:                text(args, "theme"),
					Language:             text(args, "language"),
					NotificationsEnabled: args.GetBool("notificationsEnabled"),
					CompactMode:          args.GetBool("compactMode"),
				})
				return nil
			},
		})

	case ScreenVoice:
		channelID, err := id(args, "channelID")
		if err != nil {
			return err
		}
		vm := viewmodel.NewVoice(ss.ctx, s.sugar, s.uc, ss.user, channelID)
		attach(ss, name, vm.Holder, vm.Close, map[string]intent{
			"join": func(*fastjson.Value) error {
				vm.Join()
				return nil
			},
			"setMuted": func(args *fastjson.Value) error {
				vm.SetMuted(args.GetBool("muted"), args.GetBool("deafened"))
				return nil
			},
			"leave": func(*fastjson.Value) error {
				vm.Leave()
				return nil
			},
		})

	case ScreenMembers:
		serverID, err := id(args, "serverID")
		if err != nil {
			return err
		}
		vm := viewmodel.NewMembers(ss.ctx, s.sugar, s.uc, serverID)
		attach(ss, name, vm.Holder, vm.Close, map[string]intent{
			"openProfile": func(args *fastjson.Value) error {
				shownID, err := id(args, "userID")
				if err != nil {
					return err
				}
				vm.OpenProfile(shownID)
				return nil
			},
			"refresh": func(*fastjson.Value) error {
				vm.Refresh()
				return nil
			},
		})

	default:
		return fmt.Errorf("unknown screen %q", name)
	}

	return nil
}

func homeIntents(vm *viewmodel.Home) map[string]intent {
	withServer := func(run func(serverID int64)) intent {
		return func(args *fastjson.Value) error {
			serverID, err := id(args, "serverID")
			if err != nil {
				return err
			}
			run(serverID)
			return nil
		}
	}

	return map[string]intent{
		"selectServer": withServer(vm.SelectServer),
		"joinServer":   withServer(func(serverID int64) { vm.JoinServer(serverID) }),
		"leaveServer":  withServer(func(serverID int64) { vm.LeaveServer(serverID) }),
		"deleteServer": withServer(func(serverID int64) { vm.DeleteServer(serverID) }),
		"renameServer": func(args *fastjson.Value) error {
			serverID, err := id(args, "serverID")
			if err != nil {
				return err
			}
			vm.RenameServer(serverID, text(args, "name"))
			return nil
		},
		// pictures are uploaded over HTTP, a server starts without one
		"createServer": func(args *fastjson.Value) error {
			vm.CreateServer(text(args, "name"), nil)
			return nil
		},
		"createChannel": func(args *fastjson.Value) error {
			vm.CreateChannel(text(args, "name"), text(args, "type"))
			return nil
		},
		"deleteChannel": func(args *fastjson.Value) error {
			channelID, err := id(args, "channelID")
			if err != nil {
				return err
			}
			vm.DeleteChannel(channelID)
			return nil
		},
		"openChannel": func(args *fastjson.Value) error {
			channelID, err := id(args, "channelID")
			if err != nil {
				return err
			}
			vm.OpenChannel(channelID)
			return nil
		},
		"openDirectMessages": func(*fastjson.Value) error {
			vm.OpenDirectMessages()
			return nil
		},
		"openMembers": func(*fastjson.Value) error {
			vm.OpenMembers()
			return nil
		},
	}
}

func chatIntents(vm *viewmodel.Chat) map[string]intent {
	withMessage := func(run func(messageID int64, args *fastjson.Value)) intent {
		return func(args *fastjson.Value) error {
			messageID, err := id(args, "messageID")
			if err != nil {
				return err
			}
			run(messageID, args)
			return nil
		}
	}

	return map[string]intent{
		"loadOlder": func(*fastjson.Value) error {
			vm.LoadOlder()
			return nil
		},
		"send": func(args *fastjson.Value) error {
			vm.Send(text(args, "text"))
			return nil
		},
		"edit": withMessage(func(messageID int64, args *fastjson.Value) {
			vm.Edit(messageID, text(args, "text"))
		}),
		"delete": withMessage(func(messageID int64, _ *fastjson.Value) {
			vm.Delete(messageID)
		}),
		"react": func(args *fastjson.Value) error {
			messageID, err := id(args, "messageID")
			if err != nil {
				return err
			}
			index, err := number(args, "index")
			if err != nil {
				return err
			}
			vm.React(messageID, index)
			return nil
		},
		"openProfile": func(args *fastjson.Value) error {
			userID, err := id(args, "userID")
			if err != nil {
				return err
			}
			vm.OpenProfile(userID)
			return nil
		},
	}
}
