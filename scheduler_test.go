package regexgenerator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCoolingSchedulerFillsDefaults(t *testing.T) {
	s := NewCoolingScheduler(0, 0, 0, "")
	require.Equal(t, DefaultInitialTemperature, s.InitialT)
	require.Equal(t, DefaultFinalTemperature, s.FinalT)
	require.Equal(t, DefaultMaxIterations, s.MaxIter)
	require.Equal(t, ScheduleAdaptive, s.Schedule)
	require.Equal(t, 50, s.Stagnation)
}

func TestNewCoolingSchedulerStagnationScalesWithMaxIter(t *testing.T) {
	s := NewCoolingScheduler(10, 0.01, 4000, ScheduleLinear)
	require.Equal(t, 200, s.Stagnation)
}

func TestLinearScheduleReachesZeroAtMaxIter(t *testing.T) {
	s := NewCoolingScheduler(10, 0.01, 100, ScheduleLinear)
	require.InDelta(t, 10.0, s.Temperature(0, 0), 1e-9)
	require.InDelta(t, 5.0, s.Temperature(50, 0), 1e-9)
	require.InDelta(t, 0.0, s.Temperature(100, 0), 1e-9)
}

func TestExponentialScheduleStartsAtInitialAndDecays(t *testing.T) {
	s := NewCoolingScheduler(10, 0.01, 100, ScheduleExponential)
	require.InDelta(t, 10.0, s.Temperature(0, 0), 1e-9)
	require.InDelta(t, 0.01, s.Temperature(100, 0), 1e-6)
	mid := s.Temperature(50, 0)
	require.Less(t, mid, 10.0)
	require.Greater(t, mid, 0.01)
}

func TestLogarithmicScheduleStartsAtInitialTemperature(t *testing.T) {
	s := NewCoolingScheduler(10, 0.01, 100, ScheduleLogarithmic)
	require.InDelta(t, 10.0, s.Temperature(0, 0), 1e-9)
	require.Less(t, s.Temperature(10, 0), 10.0)
}

func TestAdaptiveScheduleBoostsTemperatureDuringStagnation(t *testing.T) {
	s := NewCoolingScheduler(10, 0.01, 1000, ScheduleAdaptive)
	withoutStagnation := s.Temperature(60, 60)
	withStagnation := s.Temperature(60, 0)
	require.Greater(t, withStagnation, withoutStagnation)
}

func TestAdaptiveScheduleNeverDropsBelowFinalTemperature(t *testing.T) {
	s := NewCoolingScheduler(10, 0.5, 1000, ScheduleAdaptive)
	require.GreaterOrEqual(t, s.Temperature(999, 999), 0.5)
}
