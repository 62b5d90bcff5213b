package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/djantao/agentAI/internal/cli"
	"github.com/djantao/agentAI/internal/mastery"
)

func newCoursesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "courses [topic]",
		Short: "Generate course recommendations for a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flow, _, err := newTeachFlow(cmd.Context())
			if err != nil {
				return err
			}

			courses, err := flow.GenerateCourses(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printCourses(courses)
			return nil
		},
	}
}

func newTeachCommand() *cobra.Command {
	var module string
	teachCmd := &cobra.Command{
		Use:   "teach [topic]",
		Short: "Pick a course and run a Feynman-style teaching session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flow, model, err := newTeachFlow(cmd.Context())
			if err != nil {
				return err
			}

			courses, err := flow.GenerateCourses(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printCourses(courses)

			fmt.Print("想学哪门课程？ ")
			scanner := bufio.NewScanner(os.Stdin)
			if !scanner.Scan() {
				return scanner.Err()
			}
			index := flow.SelectCourse(strings.TrimSpace(scanner.Text()), courses)
			if index < 0 {
				return fmt.Errorf("无法识别课程选择，请输入序号或课程名称")
			}
			course := courses[index]

			if module == "" && len(course.Modules) > 0 {
				fmt.Printf("课程模块：%s\n", strings.Join(course.Modules, "、"))
				fmt.Print("想学哪个模块？（直接回车学习整门课程） ")
				if scanner.Scan() {
					module = strings.TrimSpace(scanner.Text())
				}
			}
			if module != "" {
				course.AddModule(module)
			}

			content, err := flow.Teach(cmd.Context(), course, module)
			if err != nil {
				return err
			}
			fmt.Println()
			fmt.Println(content)

			if learned := model.FindCourse(course.ID); learned != nil && module != "" {
				for _, m := range learned.Modules {
					if m.Name == module {
						fmt.Printf("\n当前掌握度 %.1f，建议 %s 复习\n",
							m.MasteryLevel, m.NextReviewDate.Format("2006-01-02"))
					}
				}
			}
			return nil
		},
	}
	teachCmd.Flags().StringVar(&module, "module", "", "module to teach; empty teaches the whole course")
	return teachCmd
}

func newTeachFlow(ctx context.Context) (*cli.TeachFlow, *mastery.Model, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	remote, err := newRemoteStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	reconciler := newMasteryReconciler(cfg, remote)
	model := mastery.NewModel(reconciler.Load(ctx))
	flow := cli.NewTeachFlow(model, newInferenceClient(cfg), cli.NewPromptSource(remote, nil), reconciler)
	return flow, model, nil
}

func printCourses(courses []mastery.Course) {
	fmt.Println("推荐课程：")
	for i, course := range courses {
		fmt.Printf("%d. %s（%s）：%s\n", i+1, course.Name, difficultyLabel(course.Difficulty), course.Description)
	}
}

func difficultyLabel(difficulty mastery.Difficulty) string {
	switch difficulty {
	case mastery.DifficultyAdvanced:
		return "高级"
	case mastery.DifficultyIntermediate:
		return "中级"
	default:
		return "入门"
	}
}
