package service

import (
	"context"

	"github.com/codewithtechno/techno-hub/internal/model"
	"github.com/codewithtechno/techno-hub/internal/session"
)

// RecentApplicationsLimit is how many applications the dashboard lists.
const RecentApplicationsLimit = 5

// AdminService builds the admin overview.
type AdminService struct {
	profiles ProfileRepository
	sprints  SprintRepository
	apps     ApplicationRepository
	appsSvc  *ApplicationService
}

func NewAdminService(profiles ProfileRepository, sprints SprintRepository, apps ApplicationRepository, appsSvc *ApplicationService) *AdminService {
	return &AdminService{profiles: profiles, sprints: sprints, apps: apps, appsSvc: appsSvc}
}

// Dashboard returns user, sprint and application counts plus the latest
// applications.
func (s *AdminService) Dashboard(ctx context.Context, who session.Identity) (model.Dashboard, error) {
	if err := requireAdmin(who); err != nil {
		return model.Dashboard{}, err
	}
	var d model.Dashboard
	var err error
	if d.TotalUsers, err = s.profiles.Count(ctx); err != nil {
		return d, storeErr("count users", err)
	}
	if d.ActiveSprints, err = s.sprints.CountActive(ctx); err != nil {
		return d, storeErr("count sprints", err)
	}
	if d.ApplicationStats, err = s.apps.Stats(ctx); err != nil {
		return d, storeErr("application stats", err)
	}
	if d.RecentApplications, err = s.appsSvc.Recent(ctx, who, RecentApplicationsLimit); err != nil {
		return d, err
	}
	if d.RecentApplications == nil {
		d.RecentApplications = []model.ApplicationWithProfile{}
	}
	return d, nil
}
