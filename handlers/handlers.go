package handlers

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wayplan/wayplan-backend/repository"
	"github.com/wayplan/wayplan-backend/services"
	"github.com/wayplan/wayplan-backend/utils"
)

// HandlerServices contains all service dependencies
type HandlerServices struct {
	AuthService      *services.AuthService
	TripService      *services.TripService
	InviteService    *services.InviteService
	ItineraryService *services.ItineraryService
	CalendarService  *services.CalendarService
	ExpenseService   *services.ExpenseService
	ExcelService     *services.ExcelService
	PollService      *services.PollService
	ChatService      *services.ChatService
}

// NewHandlerServices wires repositories into services. The broadcaster is
// injected so chat can fan out over websockets without this package
// depending on the realtime package.
func NewHandlerServices(broadcast services.Broadcaster) *HandlerServices {
	userRepo := repository.NewUserRepository()
	tripRepo := repository.NewTripRepository()
	inviteRepo := repository.NewInviteRepository()
	itineraryRepo := repository.NewItineraryRepository()
	expenseRepo := repository.NewExpenseRepository()
	pollRepo := repository.NewPollRepository()
	chatRepo := repository.NewChatRepository()

	inviteTTL := time.Duration(utils.DefaultInviteExpiryHours) * time.Hour

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "wayplan-dev-secret"
		logrus.Warn("JWT_SECRET not set, using insecure development secret")
	}

	return &HandlerServices{
		AuthService:      services.NewAuthService(userRepo, secret),
		TripService:      services.NewTripService(tripRepo, userRepo),
		InviteService:    services.NewInviteService(inviteRepo, tripRepo, services.NewNotifierFromEnv(), inviteTTL),
		ItineraryService: services.NewItineraryService(itineraryRepo, tripRepo),
		CalendarService:  services.NewCalendarService(itineraryRepo, tripRepo),
		ExpenseService:   services.NewExpenseService(expenseRepo, tripRepo),
		ExcelService:     services.NewExcelService(expenseRepo, tripRepo),
		PollService:      services.NewPollService(pollRepo, tripRepo),
		ChatService:      services.NewChatService(chatRepo, tripRepo, broadcast),
	}
}

var handlerServices *HandlerServices

// InitHandlers initializes the handler services
func InitHandlers(s *HandlerServices) {
	handlerServices = s
}
