package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yigit/ratemyteacher/internal/app/models/dto"
	appServices "github.com/yigit/ratemyteacher/internal/app/services"
)

type demoClass struct {
	name     string
	teachers []dto.TeacherRequest
}

type demoSchool struct {
	name    string
	classes []demoClass
}

var demoCatalog = []demoSchool{
	{
		name: "Riverside High School",
		classes: []demoClass{
			{name: "Grade 10-A", teachers: []dto.TeacherRequest{
				{Name: "Ayse Demir", Qualifications: "MSc Mathematics"},
				{Name: "John Carter", Qualifications: "BA English Literature"},
			}},
			{name: "Grade 11-B", teachers: []dto.TeacherRequest{
				{Name: "Mehmet Kaya", Qualifications: "PhD Physics"},
			}},
		},
	},
	{
		name: "Hillcrest Academy",
		classes: []demoClass{
			{name: "Year 9", teachers: []dto.TeacherRequest{
				{Name: "Elif Sahin", Qualifications: "BSc Biology, PGCE"},
				{Name: "Daniel Moore", Qualifications: "MA History"},
			}},
		},
	},
}

// EnsureAdminConfig creates the admin configuration with the default secret
// when the store has none.
func EnsureAdminConfig(ctx context.Context, adminConfig appServices.AdminConfigService, defaultSecret string, lgr zerolog.Logger) error {
	created, err := adminConfig.EnsureDefault(ctx, defaultSecret)
	if err != nil {
		lgr.Error().Err(err).Msg("Error ensuring admin config")
		return fmt.Errorf("failed to ensure admin config: %w", err)
	}
	if created {
		lgr.Warn().Msg("Admin config initialised with the default secret, rotate it with PUT /api/admin/secret")
	}
	return nil
}

// CreateDemoData fills an empty catalog with a few schools, classes and
// teachers. It does nothing when any school already exists and reports
// whether data was written.
func CreateDemoData(ctx context.Context, catalog appServices.CatalogService, teachers appServices.TeacherService, lgr zerolog.Logger) (bool, error) {
	existing, err := catalog.ListSchools(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list schools: %w", err)
	}
	if len(existing) > 0 {
		lgr.Info().Int("schools", len(existing)).Msg("Catalog is not empty, skipping demo data")
		return false, nil
	}

	lgr.Info().Msg("Creating demo data (schools/classes/teachers)...")
	var finalErr error // collect errors without stopping the process

	for _, ds := range demoCatalog {
		school, err := catalog.CreateSchool(ctx, ds.name)
		if err != nil {
			lgr.Error().Err(err).Str("school", ds.name).Msg("Error creating demo school")
			finalErr = errors.Join(finalErr, err)
			continue
		}

		for _, dc := range ds.classes {
			class, err := catalog.CreateClass(ctx, dc.name, school.ID)
			if err != nil {
				lgr.Error().Err(err).Str("class", dc.name).Msg("Error creating demo class")
				finalErr = errors.Join(finalErr, err)
				continue
			}

			for _, req := range dc.teachers {
				req.SchoolID = school.ID
				req.ClassID = class.ID
				if _, err := teachers.Create(ctx, &req); err != nil {
					lgr.Error().Err(err).Str("teacher", req.Name).Msg("Error creating demo teacher")
					finalErr = errors.Join(finalErr, err)
				}
			}
		}
	}

	if finalErr != nil {
		return true, finalErr
	}
	lgr.Info().Int("schools", len(demoCatalog)).Msg("Demo data created")
	return true, nil
}
