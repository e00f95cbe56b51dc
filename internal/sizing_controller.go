/*
 * Copyright (c) 2023. Anton Starikov -- All Rights Reserved
 *
 * This file is part of CTFAN project.
 *
 * CTFAN is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as the Free Software Foundation,
 * either version 3 of the License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package internal

import (
	"context"
	"encoding/json"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/antst/ctfan/internal/calcerr"
	"github.com/antst/ctfan/internal/config"
	"github.com/antst/ctfan/internal/db"
	"github.com/antst/ctfan/internal/logger"
	"github.com/antst/ctfan/internal/safe_mqtt"
	"github.com/antst/ctfan/internal/solver"
)

const (
	timerDuration     = 500 * time.Millisecond
	ambientChanBuffer = 8
	ClientIDPrefix    = "ctfan-"

	// malformedRequestID names the result topic of requests that could not be decoded.
	malformedRequestID = "error"
)

// SolveRequest is the JSON payload of <control_topic>/solve: a design case plus an
// optional request id that names the result topic.
type SolveRequest struct {
	ID string `json:"id,omitempty"`
	config.CaseConfig
}

// SolveResponse is published on <control_topic>/result/<id>, or on
// <control_topic>/result/error when the request could not be decoded.
type SolveResponse struct {
	ID        string              `json:"id"`
	RunID     string              `json:"run_id,omitempty"`
	Name      string              `json:"name,omitempty"`
	Result    *solver.SolveResult `json:"result,omitempty"`
	ErrorKind string              `json:"error_kind,omitempty"`
	Error     string              `json:"error,omitempty"`
}

// PowerReport is published, retained, on <control_topic>/power for every re-solve of
// the reference case under live ambient conditions.
type PowerReport struct {
	Case             string    `json:"case"`
	WetBulb          float64   `json:"wet_bulb_c"`
	RelativeHumidity float64   `json:"relative_humidity"`
	AirflowKgps      float64   `json:"airflow_kgps,omitempty"`
	PressureDropPa   float64   `json:"pressure_drop_pa,omitempty"`
	PowerKW          float64   `json:"power_kw,omitempty"`
	Warnings         []string  `json:"warnings,omitempty"`
	ErrorKind        string    `json:"error_kind,omitempty"`
	Error            string    `json:"error,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

// SizingController serves solve requests over MQTT and keeps the power of a reference
// case up to date with the live ambient feed.
type SizingController struct {
	cfg         *config.Config
	solver      *solver.Solver
	store       RunStore
	mqtt        safe_mqtt.MqttClient
	reference   *config.DesignCase
	ambient     *AmbientController
	ambientChan chan Ambient
}

// NewSizingController subscribes to the control topics. reference may be nil, which
// disables the ambient feed.
func NewSizingController(
	cfg *config.Config, s *solver.Solver, store RunStore, client safe_mqtt.MqttClient, reference *config.DesignCase,
) *SizingController {
	c := &SizingController{
		cfg:         cfg,
		solver:      s,
		store:       store,
		mqtt:        client,
		reference:   reference,
		ambientChan: make(chan Ambient, ambientChanBuffer),
	}
	c.setupMQTTSubscriptions()
	if reference != nil {
		c.ambient = NewAmbientController(cfg.Ambient, cfg.MQTTConfig.ControlTopic, client, store, c.ambientChan)
	}
	return c
}

func (c *SizingController) setupMQTTSubscriptions() {
	controlTopic := c.cfg.MQTTConfig.ControlTopic
	c.mqtt.SafeSubscribe(controlTopic+"/solve", mqttQoS, c.solveRequestHandler)
	c.mqtt.SafeSubscribe(controlTopic+"/log_level", mqttQoS, c.controlUpdateHandler)
}

// Run re-solves the reference case after ambient changes settle, until ctx is done.
func (c *SizingController) Run(ctx context.Context) {
	var latest Ambient
	pending := false
	timer := time.NewTimer(timerDuration)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			if c.ambient != nil {
				c.ambient.Close()
			}
			return
		case amb := <-c.ambientChan:
			latest, pending = amb, true
			c.resetTimer(timer)
		case <-timer.C:
			if pending {
				pending = false
				c.solveReference(ctx, latest)
			}
		}
	}
}

func (c *SizingController) resetTimer(timer *time.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	timer.Reset(timerDuration)
}

func (c *SizingController) controlUpdateHandler(client mqtt.Client, message mqtt.Message) {
	topic := lastTopicLevel(message.Topic())
	logger.L().Infof("main: Got MQTT control request: %v : %v", topic, string(message.Payload()))
	switch topic {
	case "log_level":
		if err := c.cfg.LogLevel.Set(string(message.Payload())); err != nil {
			logger.L().Errorf("Wrong log level `%v`", string(message.Payload()))
		} else {
			logger.SetLogLevel(c.cfg.LogLevel)
			logger.L().Infof("Updated loglevel to `%v`", c.cfg.LogLevel.String())
		}
	}
}

func (c *SizingController) solveRequestHandler(client mqtt.Client, message mqtt.Message) {
	resp := c.handleSolve(context.Background(), message.Payload())
	payload, err := json.Marshal(resp)
	if err != nil {
		logger.L().Error(errors.Wrap(err, "failed to marshal solve response"))
		return
	}
	c.mqtt.SafePublish(c.cfg.MQTTConfig.ControlTopic+"/result/"+resp.ID, mqttQoS, false, payload)
}

func (c *SizingController) handleSolve(ctx context.Context, payload []byte) SolveResponse {
	req := SolveRequest{}
	if err := json.Unmarshal(payload, &req); err != nil {
		logger.L().Errorf("Malformed solve request: %v", err)
		return SolveResponse{
			ID:        malformedRequestID,
			ErrorKind: calcerr.InvalidInput.String(),
			Error:     errors.Wrap(err, "malformed solve request").Error(),
		}
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	resp := SolveResponse{ID: req.ID, Name: req.Project.Name}

	res, err := c.solveCase(&req.CaseConfig)
	if err != nil {
		logger.L().Warnf("Solve request %v failed: %v", req.ID, err)
		resp.ErrorKind = calcerr.KindOf(err).String()
		resp.Error = err.Error()
	} else {
		logger.L().Infof("Solve request %v: G=%.2f kg/s, P=%.4g kW", req.ID, res.AirflowKgps, res.PowerKW)
		resp.Result = &res
	}
	resp.RunID = c.record(ctx, db.SourceMQTT, req.Project.Name, req.CaseConfig, res, err)
	return resp
}

func (c *SizingController) solveCase(cc *config.CaseConfig) (solver.SolveResult, error) {
	dc, err := cc.ToSI()
	if err != nil {
		return solver.SolveResult{}, err
	}
	return c.solver.SolveForPower(dc.Thermal, dc.Geometry, dc.Fan)
}

// solveReference solves the reference case with the live readings of whichever groups
// have reported, and publishes the outcome.
func (c *SizingController) solveReference(ctx context.Context, amb Ambient) PowerReport {
	th := c.reference.Thermal
	if amb.WetBulbTimestamp.After(zeroTS) {
		th.WetBulbTemp = amb.WetBulb
	}
	if amb.RelativeHumidityTimestamp.After(zeroTS) {
		th.RelativeHumidity = amb.RelativeHumidity
	}

	report := PowerReport{
		Case:             c.reference.Name,
		WetBulb:          th.WetBulbTemp,
		RelativeHumidity: th.RelativeHumidity,
		Timestamp:        time.Now().UTC(),
	}
	res, err := c.solver.SolveForPower(th, c.reference.Geometry, c.reference.Fan)
	if err != nil {
		logger.L().Warnf("Reference case at Twb=%.2f °C, RH=%.3f failed: %v", th.WetBulbTemp, th.RelativeHumidity, err)
		report.ErrorKind = calcerr.KindOf(err).String()
		report.Error = err.Error()
	} else {
		logger.L().Infof("Reference case at Twb=%.2f °C, RH=%.3f: G=%.2f kg/s, P=%.4g kW",
			th.WetBulbTemp, th.RelativeHumidity, res.AirflowKgps, res.PowerKW)
		report.AirflowKgps = res.AirflowKgps
		report.PressureDropPa = res.PressureDropPa
		report.PowerKW = res.PowerKW
		report.Warnings = res.Warnings
	}
	c.record(ctx, db.SourceAmbient, c.reference.Name, th, res, err)

	payload, mErr := json.Marshal(report)
	if mErr != nil {
		logger.L().Error(errors.Wrap(mErr, "failed to marshal power report"))
		return report
	}
	c.mqtt.SafePublish(c.cfg.MQTTConfig.ControlTopic+"/power", mqttQoS, true, payload)
	return report
}

// record stores the run and returns its id, or "" when it could not be stored.
func (c *SizingController) record(
	ctx context.Context, source, name string, input interface{}, res solver.SolveResult, solveErr error,
) string {
	if c.store == nil {
		return ""
	}
	run, err := db.NewRun(source, name, input, res, solveErr)
	if err == nil {
		err = c.store.SaveRun(ctx, run)
	}
	if err != nil {
		logger.L().Error(errors.WithMessage(err, "failed to record run"))
		return ""
	}
	return run.ID
}
