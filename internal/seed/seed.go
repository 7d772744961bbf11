package seed

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/shiftwise-dev/roster/backend/internal/config"
	"github.com/shiftwise-dev/roster/backend/internal/domain"
	"github.com/shiftwise-dev/roster/backend/internal/repository"
	"github.com/shiftwise-dev/roster/backend/internal/utils"
)

var companyNames = []string{"华晨餐饮", "盛达百货", "悦享咖啡", "恒信物流"}
var locationSuffixes = []string{"旗舰店", "中心店", "东门店", "西门店", "北门店", "机场店"}
var positionNames = []string{"收银员", "导购", "仓管", "保安", "店长助理", "客服"}
var languageNames = []string{"普通话", "粤语", "英语", "日语", "韩语"}

var blueprintTemplates = []struct {
	name      string
	startTime string
	endTime   string
}{
	{"早班", "09:00:00", "13:00:00"},
	{"午班", "13:00:00", "17:00:00"},
	{"晚班", "17:00:00", "21:00:00"},
	{"全天班", "09:00:00", "18:00:00"},
}

// SeedOrganizations 插入公司、门店、岗位和语言等基础数据
func SeedOrganizations(repo *repository.Repository) {
	for _, name := range positionNames {
		p := &domain.Position{Name: name}
		if err := repo.CreatePosition(p); err != nil {
			slog.Error("无法插入岗位", "name", name, "error", err)
		}
	}

	for _, name := range languageNames {
		l := &domain.Language{Name: name}
		if err := repo.CreateLanguage(l); err != nil {
			slog.Error("无法插入语言", "name", name, "error", err)
		}
	}

	locationCount := 0
	for _, name := range companyNames {
		company := &domain.Company{Name: name}
		if err := repo.CreateCompany(company); err != nil {
			slog.Error("无法插入公司", "name", name, "error", err)
			continue
		}

		// 每家公司两到四个门店
		n := rand.Intn(3) + 2
		for i := 0; i < n; i++ {
			loc := &domain.Location{
				CompanyID: company.ID,
				Name:      company.Name + locationSuffixes[i%len(locationSuffixes)],
			}
			if err := repo.CreateLocation(loc); err != nil {
				slog.Error("无法插入门店", "name", loc.Name, "error", err)
				continue
			}
			locationCount++
		}
	}

	slog.Info("插入基础数据成功",
		"companies", len(companyNames),
		"locations", locationCount,
		"positions", len(positionNames),
		"languages", len(languageNames),
	)
}

// SeedEmployees 插入随机员工，随机分配岗位、门店和语言
func SeedEmployees(repo *repository.Repository, cfg *config.Config, n int) {
	positions, err := repo.GetAllPositions()
	if err != nil {
		slog.Error("无法获取岗位列表", "error", err)
		return
	}
	locations, err := repo.GetAllLocations()
	if err != nil {
		slog.Error("无法获取门店列表", "error", err)
		return
	}
	languages, err := repo.GetAllLanguages()
	if err != nil {
		slog.Error("无法获取语言列表", "error", err)
		return
	}
	if len(positions) == 0 || len(locations) == 0 {
		slog.Error("请先插入基础数据")
		return
	}

	cnt := 0
	for i := 0; i < n; i++ {
		employee, err := utils.GenerateRandomEmployee(cfg.Seed.Employee.Password, cfg.Email.EmployeeDomain)
		if err != nil {
			slog.Error("无法生成随机员工", "error", err)
			continue
		}

		employee.PositionID = positions[rand.Intn(len(positions))].ID
		employee.PreferredDayOff = utils.GenerateRandomDayOff()

		// 随机一到两个门店，公司集合由门店推导
		companySet := map[int64]struct{}{}
		for j := 0; j < rand.Intn(2)+1; j++ {
			loc := locations[rand.Intn(len(locations))]
			if !employee.WorksAtLocation(loc.ID) {
				employee.LocationIDs = append(employee.LocationIDs, loc.ID)
			}
			companySet[loc.CompanyID] = struct{}{}
		}
		for companyID := range companySet {
			employee.CompanyIDs = append(employee.CompanyIDs, companyID)
		}

		for _, l := range languages {
			if rand.Intn(2) == 0 {
				employee.LanguageIDs = append(employee.LanguageIDs, l.ID)
			}
		}

		if err := repo.CreateEmployee(employee); err != nil {
			slog.Error("无法插入员工", "error", err)
			continue
		}

		cnt++
	}

	slog.Info("插入员工成功", "count", cnt)
}

// SeedBlueprints 为每个门店插入随机班次蓝图
func SeedBlueprints(repo *repository.Repository) {
	positions, err := repo.GetAllPositions()
	if err != nil {
		slog.Error("无法获取岗位列表", "error", err)
		return
	}
	locations, err := repo.GetAllLocations()
	if err != nil {
		slog.Error("无法获取门店列表", "error", err)
		return
	}
	languages, err := repo.GetAllLanguages()
	if err != nil {
		slog.Error("无法获取语言列表", "error", err)
		return
	}
	if len(positions) == 0 || len(locations) == 0 {
		slog.Error("请先插入基础数据")
		return
	}

	cnt := 0
	for _, loc := range locations {
		// 每个门店两到三种班次
		n := rand.Intn(2) + 2
		for i := 0; i < n; i++ {
			tpl := blueprintTemplates[i%len(blueprintTemplates)]
			bp := &domain.Blueprint{
				LocationID: loc.ID,
				Name:       tpl.name,
				StartTime:  tpl.startTime,
				EndTime:    tpl.endTime,
				IsActive:   true,
				Priority:   int32(i),
			}

			// 随机一到三个岗位要求，岗位不重复
			lineCount := rand.Intn(3) + 1
			used := map[int64]struct{}{}
			for j := 0; j < lineCount; j++ {
				p := positions[rand.Intn(len(positions))]
				if _, ok := used[p.ID]; ok {
					continue
				}
				used[p.ID] = struct{}{}

				line := domain.StaffingLine{
					PositionID:    p.ID,
					RequiredCount: int32(rand.Intn(3) + 1),
				}
				if rand.Intn(2) == 0 {
					ideal := line.RequiredCount + int32(rand.Intn(2)+1)
					line.IdealCount = &ideal
				}
				bp.StaffingLines = append(bp.StaffingLines, line)
			}

			if len(languages) > 0 && rand.Intn(2) == 0 {
				bp.LanguageHints = append(bp.LanguageHints, domain.LanguageHint{
					LanguageID:    languages[rand.Intn(len(languages))].ID,
					RequiredCount: 1,
				})
			}

			if err := repo.CreateBlueprint(bp); err != nil {
				slog.Error("无法插入蓝图", "location", loc.Name, "error", err)
				continue
			}
			cnt++
		}
	}

	slog.Info("插入蓝图成功", "count", cnt)
}

var availabilityTypes = []domain.AvailabilityType{
	domain.AvailabilityAvailable,
	domain.AvailabilityVacation,
	domain.AvailabilitySickLeave,
	domain.AvailabilityPersonalLeave,
	domain.AvailabilityUnavailable,
}

// SeedAvailability 为随机员工插入未来两周内的随机假勤记录
func SeedAvailability(repo *repository.Repository, n int) {
	employees, err := repo.GetAllEmployees()
	if err != nil {
		slog.Error("无法获取员工列表", "error", err)
		return
	}
	if len(employees) == 0 {
		slog.Error("请先插入员工")
		return
	}

	cnt := 0
	for i := 0; i < n; i++ {
		e := employees[rand.Intn(len(employees))]

		start := time.Now().AddDate(0, 0, rand.Intn(14))
		start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

		record := &domain.AvailabilityRecord{
			EmployeeID: e.ID,
			StartDate:  start,
			EndDate:    start.AddDate(0, 0, rand.Intn(3)),
			Type:       availabilityTypes[rand.Intn(len(availabilityTypes))],
		}

		if err := repo.CreateAvailabilityRecord(record); err != nil {
			slog.Error("无法插入假勤记录", "error", err)
			continue
		}
		cnt++
	}

	slog.Info("插入假勤记录成功", "count", cnt)
}

// SeedOccurrences 为每个门店生成未来一周的班次实例
func SeedOccurrences(repo *repository.Repository) {
	locations, err := repo.GetAllLocations()
	if err != nil {
		slog.Error("无法获取门店列表", "error", err)
		return
	}

	// 从下一个周一开始生成一整周
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for start.Weekday() != time.Monday {
		start = start.AddDate(0, 0, 1)
	}
	end := start.AddDate(0, 0, 6)

	cnt := 0
	for _, loc := range locations {
		occurrences, err := repo.GenerateOccurrences(loc.ID, start, end, true)
		if err != nil {
			slog.Error("无法生成班次实例", "location", loc.Name, "error", err)
			continue
		}
		cnt += len(occurrences)
	}

	slog.Info(fmt.Sprintf("生成班次实例成功，时间范围 %s ~ %s", start.Format("2006-01-02"), end.Format("2006-01-02")), "count", cnt)
}
