package service

import (
	"go-invoicehub/internal/apperr"
	"go-invoicehub/internal/model"
	"go-invoicehub/internal/repository"
	"go-invoicehub/pkg/jwt"

	"github.com/google/uuid"
)

type AdminService interface {
	Login(email, password string) (*AdminLoginResponse, error)
	ListUsers() ([]model.UserResponse, error)
	DeleteUser(userID uuid.UUID) error
	ListComplaints() ([]model.Complaint, error)
	UpdateComplaint(id uuid.UUID, req *ComplaintUpdateRequest) (*model.Complaint, error)
}

type AdminLoginResponse struct {
	AccessToken string       `json:"access_token"`
	Admin       *model.Admin `json:"admin"`
}

type ComplaintUpdateRequest struct {
	Status            model.ComplaintStatus `json:"status"`
	DeveloperResponse string                `json:"developer_response"`
}

type adminService struct {
	adminRepo     repository.AdminRepository
	userRepo      repository.UserRepository
	complaintRepo repository.ComplaintRepository
	tokens        *jwt.Manager
}

func NewAdminService(
	adminRepo repository.AdminRepository,
	userRepo repository.UserRepository,
	complaintRepo repository.ComplaintRepository,
	tokens *jwt.Manager,
) AdminService {
	return &adminService{
		adminRepo:     adminRepo,
		userRepo:      userRepo,
		complaintRepo: complaintRepo,
		tokens:        tokens,
	}
}

func (s *adminService) Login(email, password string) (*AdminLoginResponse, error) {
	if email == "" || password == "" {
		return nil, apperr.InvalidInput("email and password are required")
	}

	admin, err := s.adminRepo.FindByEmail(email)
	if err != nil {
		return nil, apperr.Unauthorized("invalid admin credentials")
	}
	if !admin.CheckPassword(password) {
		return nil, apperr.Unauthorized("invalid admin credentials")
	}

	token, err := s.tokens.GenerateAccessToken(admin.ID, admin.Email, admin.Username, admin.Role)
	if err != nil {
		return nil, apperr.Upstream("failed to generate token")
	}

	admin.Password = ""
	return &AdminLoginResponse{AccessToken: token, Admin: admin}, nil
}

func (s *adminService) ListUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}
	responses := make([]model.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, u.ToResponse())
	}
	return responses, nil
}

// DeleteUser removes the account and everything it owns, same as a
// self-service deletion.
func (s *adminService) DeleteUser(userID uuid.UUID) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		return apperr.NotFound("user not found")
	}
	return s.userRepo.DeleteCascade(userID)
}

func (s *adminService) ListComplaints() ([]model.Complaint, error) {
	return s.complaintRepo.FindAll()
}

func (s *adminService) UpdateComplaint(id uuid.UUID, req *ComplaintUpdateRequest) (*model.Complaint, error) {
	complaint, err := s.complaintRepo.FindByID(id)
	if err != nil {
		return nil, apperr.NotFound("complaint not found")
	}

	if req.Status != "" {
		switch req.Status {
		case model.ComplaintPending, model.ComplaintInProgress, model.ComplaintResolved:
			complaint.Status = req.Status
		default:
			return nil, apperr.InvalidInput("invalid complaint status: %s", req.Status)
		}
	}
	if req.DeveloperResponse != "" {
		complaint.DeveloperResponse = req.DeveloperResponse
	}

	if err := s.complaintRepo.Update(complaint); err != nil {
		return nil, err
	}
	return complaint, nil
}
