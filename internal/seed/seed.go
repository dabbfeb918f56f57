// Package seed 演示数据填充
package seed

import (
	"context"
	"fmt"
	"strings"

	"skill-swap/internal/model"
	"skill-swap/internal/repository"
	"skill-swap/pkg/logger"
	"skill-swap/pkg/password"

	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword 所有演示账号的密码
const DemoPassword = "password123"

type demoSkill struct {
	Title       string
	Description string
	Category    string
	Type        model.SkillType
}

type demoUser struct {
	Username     string
	Name         string
	Bio          string
	Location     string
	Availability string
	Skills       []demoSkill
}

var demoUsers = []demoUser{
	{
		Username:     "alice@example.com",
		Name:         "Alice Johnson",
		Bio:          "Full-stack developer passionate about web technologies. Looking to expand into design.",
		Location:     "San Francisco, CA",
		Availability: "Weekends and evenings",
		Skills: []demoSkill{
			{"React Development", "Building modern web applications with React", "Tech", model.SkillTypeTeach},
			{"UI/UX Design", "Creating intuitive user interfaces", "Design", model.SkillTypeLearn},
		},
	},
	{
		Username:     "bob@example.com",
		Name:         "Bob Smith",
		Bio:          "Graphic designer with 5+ years experience. Love creating visual stories.",
		Location:     "New York, NY",
		Availability: "Flexible schedule",
		Skills: []demoSkill{
			{"Graphic Design", "Logo design, branding, and visual identity", "Design", model.SkillTypeTeach},
			{"Guitar Lessons", "Learn to play acoustic guitar", "Music", model.SkillTypeLearn},
		},
	},
	{
		Username:     "charlie@example.com",
		Name:         "Charlie Brown",
		Bio:          "Professional guitarist and music producer. Always eager to learn new languages.",
		Location:     "Los Angeles, CA",
		Availability: "Evenings after 6 PM",
		Skills: []demoSkill{
			{"Guitar Playing", "Rock, blues, and fingerstyle guitar techniques", "Music", model.SkillTypeTeach},
			{"Spanish Conversation", "Improve conversational Spanish skills", "Language", model.SkillTypeLearn},
		},
	},
	{
		Username:     "diana@example.com",
		Name:         "Diana Prince",
		Bio:          "Language enthusiast and Spanish teacher. Interested in coding and tech.",
		Location:     "Austin, TX",
		Availability: "Weekdays 10 AM - 5 PM",
		Skills: []demoSkill{
			{"Spanish Language", "Native Spanish speaker offering lessons", "Language", model.SkillTypeTeach},
			{"JavaScript Programming", "Learn the basics of JavaScript", "Tech", model.SkillTypeLearn},
		},
	},
	{
		Username:     "eve@example.com",
		Name:         "Eve Wilson",
		Bio:          "Creative professional with diverse interests. Love sharing knowledge and learning new things.",
		Location:     "Seattle, WA",
		Availability: "Weekends only",
		Skills: []demoSkill{
			{"Photography", "Digital photography and editing techniques", "Design", model.SkillTypeTeach},
			{"Piano Lessons", "Beginner to intermediate piano instruction", "Music", model.SkillTypeTeach},
			{"French Language", "Learn French for travel and conversation", "Language", model.SkillTypeLearn},
		},
	},
}

var fakeCategories = []string{"Tech", "Design", "Music", "Language", "Cooking", "Fitness"}

// Options 填充参数
type Options struct {
	// FakeUsers 额外生成的随机用户数
	FakeUsers int
	// HashCost bcrypt 代价，0 使用默认值
	HashCost int
	// RandSeed 随机种子，0 表示不固定
	RandSeed int64
}

// Result 填充结果统计
type Result struct {
	UsersCreated  int
	UsersSkipped  int
	SkillsCreated int
}

// Seeder 演示数据填充器
type Seeder struct {
	users  *repository.UserRepository
	skills *repository.SkillRepository
	opts   Options
}

// NewSeeder 创建填充器
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	if opts.HashCost == 0 {
		opts.HashCost = bcrypt.DefaultCost
	}
	return &Seeder{
		users:  repository.NewUserRepository(db),
		skills: repository.NewSkillRepository(db),
		opts:   opts,
	}
}

// Run 写入演示用户与技能，已存在的用户整体跳过
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	hash, err := password.HashWithCost(DemoPassword, s.opts.HashCost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}

	res := &Result{}
	for _, du := range demoUsers {
		if err := s.seedUser(ctx, du, hash, res); err != nil {
			return res, err
		}
	}

	if s.opts.FakeUsers > 0 {
		if s.opts.RandSeed != 0 {
			gofakeit.Seed(s.opts.RandSeed)
		}
		for i := 0; i < s.opts.FakeUsers; i++ {
			if err := s.seedUser(ctx, fakeUser(), hash, res); err != nil {
				return res, err
			}
		}
	}

	logger.Info("演示数据填充完成",
		zap.Int("users_created", res.UsersCreated),
		zap.Int("users_skipped", res.UsersSkipped),
		zap.Int("skills_created", res.SkillsCreated),
	)
	return res, nil
}

func (s *Seeder) seedUser(ctx context.Context, du demoUser, hash string, res *Result) error {
	_, err := s.users.GetByUsername(ctx, du.Username)
	if err == nil {
		res.UsersSkipped++
		logger.Info("用户已存在，跳过", zap.String("username", du.Username))
		return nil
	}
	if !model.IsKind(err, model.KindNotFound) {
		return err
	}

	user := &model.User{
		Username:     du.Username,
		PasswordHash: hash,
		Name:         du.Name,
		Bio:          optional(du.Bio),
		Location:     optional(du.Location),
		Availability: optional(du.Availability),
		AvatarURL:    optional("https://api.dicebear.com/7.x/avataaars/svg?seed=" + strings.Fields(du.Name)[0]),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return fmt.Errorf("create user %s: %w", du.Username, err)
	}
	res.UsersCreated++

	for _, ds := range du.Skills {
		skill := &model.Skill{
			UserID:      user.ID,
			Title:       ds.Title,
			Description: ds.Description,
			Category:    ds.Category,
			Type:        ds.Type,
		}
		if err := s.skills.Create(ctx, skill); err != nil {
			return fmt.Errorf("create skill %q: %w", ds.Title, err)
		}
		res.SkillsCreated++
	}
	return nil
}

func fakeUser() demoUser {
	first, last := gofakeit.FirstName(), gofakeit.LastName()
	du := demoUser{
		Username:     strings.ToLower(fmt.Sprintf("%s.%s%d@example.com", first, last, gofakeit.Number(100, 9999))),
		Name:         first + " " + last,
		Bio:          gofakeit.Sentence(12),
		Location:     fmt.Sprintf("%s, %s", gofakeit.City(), gofakeit.StateAbr()),
		Availability: gofakeit.RandomString([]string{"Weekends only", "Evenings", "Flexible schedule", "Weekdays"}),
	}
	for _, typ := range []model.SkillType{model.SkillTypeTeach, model.SkillTypeLearn} {
		du.Skills = append(du.Skills, demoSkill{
			Title:       strings.TrimSuffix(gofakeit.HipsterSentence(3), "."),
			Description: gofakeit.Sentence(8),
			Category:    gofakeit.RandomString(fakeCategories),
			Type:        typ,
		})
	}
	return du
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
